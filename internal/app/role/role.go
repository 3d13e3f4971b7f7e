package role

type Role int

const (
	Staff Role = iota // read-only back office
	Admin
)

func (r Role) String() string {
	switch r {
	case Admin:
		return "admin"
	case Staff:
		return "staff"
	}
	return "unknown"
}
