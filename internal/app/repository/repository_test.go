package repository_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"academy/internal/app/contract"
	"academy/internal/app/ds"
	"academy/internal/app/repository"
	"academy/internal/app/repository/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func newPackage(t *testing.T, repo *repository.Repository, slug string, installments int) *ds.Package {
	t.Helper()
	p := &ds.Package{
		Name:                       slug,
		Slug:                       slug,
		Price:                      decimal.RequireFromString("1000"),
		PaymentType:                ds.PaymentTypeFixed,
		DurationDays:               60,
		IsActive:                   true,
		HasContract:                true,
		ContractTemplateIndividual: strPtr("Ugovor {ime} {prezime} {cijena}"),
	}
	if installments > 0 {
		p.PaymentType = ds.PaymentTypeInstallments
		for i := 1; i <= installments; i++ {
			p.Installments = append(p.Installments, ds.PackageInstallment{
				InstallmentNumber: i,
				Amount:            decimal.NewFromInt(100),
			})
		}
	}
	if err := repo.CreatePackage(context.Background(), p); err != nil {
		t.Fatalf("CreatePackage: %v", err)
	}
	return p
}

func newStudent(t *testing.T, repo *repository.Repository, slug *string, method string) *ds.Student {
	t.Helper()
	s := &ds.Student{
		FirstName:     "Ana",
		LastName:      "Anić",
		Email:         "ana@example.com",
		EntityType:    ds.EntityIndividual,
		PaymentMethod: method,
		PackageType:   slug,
	}
	if err := repo.CreateStudent(context.Background(), s); err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}
	return s
}

func TestCreatePackageDropsPlanForFixed(t *testing.T) {
	repo := testutil.NewRepository(t)
	ctx := context.Background()

	p := &ds.Package{
		Name: "Fixed", Slug: "fixed", Price: decimal.NewFromInt(10), PaymentType: ds.PaymentTypeFixed,
		DurationDays: 60, IsActive: true,
		Installments: []ds.PackageInstallment{{InstallmentNumber: 1, Amount: decimal.NewFromInt(10)}},
	}
	if err := repo.CreatePackage(ctx, p); err != nil {
		t.Fatalf("CreatePackage: %v", err)
	}

	got, err := repo.GetPackageByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPackageByID: %v", err)
	}
	if len(got.Installments) != 0 {
		t.Fatalf("fixed package kept %d installments", len(got.Installments))
	}
}

func TestListPackagesActiveOnly(t *testing.T) {
	repo := testutil.NewRepository(t)
	ctx := context.Background()

	newPackage(t, repo, "active", 0)
	inactive := newPackage(t, repo, "inactive", 0)
	inactive.IsActive = false
	if err := repo.UpdatePackage(ctx, inactive, inactive.Slug, nil); err != nil {
		t.Fatalf("UpdatePackage: %v", err)
	}

	active, err := repo.ListPackages(ctx, false)
	if err != nil {
		t.Fatalf("ListPackages: %v", err)
	}
	if len(active) != 1 || active[0].Slug != "active" {
		t.Fatalf("unexpected active list: %+v", active)
	}

	all, err := repo.ListPackages(ctx, true)
	if err != nil {
		t.Fatalf("ListPackages: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d packages, want 2", len(all))
	}
}

func TestUpdatePackageReplacesInstallments(t *testing.T) {
	repo := testutil.NewRepository(t)
	ctx := context.Background()
	p := newPackage(t, repo, "plan", 3)

	replacement := []ds.PackageInstallment{
		{InstallmentNumber: 1, Amount: decimal.NewFromInt(500)},
		{InstallmentNumber: 2, Amount: decimal.NewFromInt(500)},
	}
	if err := repo.UpdatePackage(ctx, p, p.Slug, &replacement); err != nil {
		t.Fatalf("UpdatePackage: %v", err)
	}
	if len(p.Installments) != 2 {
		t.Fatalf("got %d installments, want 2", len(p.Installments))
	}

	p.PaymentType = ds.PaymentTypeFixed
	if err := repo.UpdatePackage(ctx, p, p.Slug, &replacement); err != nil {
		t.Fatalf("UpdatePackage: %v", err)
	}
	if len(p.Installments) != 0 {
		t.Fatalf("fixed package should have no plan, got %d", len(p.Installments))
	}
}

func TestUpdatePackageRenamesStudentReferences(t *testing.T) {
	repo := testutil.NewRepository(t)
	ctx := context.Background()
	p := newPackage(t, repo, "old-slug", 0)
	s := newStudent(t, repo, strPtr("old-slug"), ds.PaymentMethodFull)

	p.Slug = "new-slug"
	if err := repo.UpdatePackage(ctx, p, "old-slug", nil); err != nil {
		t.Fatalf("UpdatePackage: %v", err)
	}

	got, err := repo.GetStudent(ctx, s.ID)
	if err != nil {
		t.Fatalf("GetStudent: %v", err)
	}
	if got.PackageSlug() != "new-slug" {
		t.Fatalf("package_type = %q", got.PackageSlug())
	}
}

func countInstallments(t *testing.T, db *gorm.DB, packageID uuid.UUID) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&ds.PackageInstallment{}).Where("package_id = ?", packageID).Count(&n).Error; err != nil {
		t.Fatalf("count installments: %v", err)
	}
	return n
}

func TestDeletePackageInUse(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewWithDB(db)
	ctx := context.Background()
	p := newPackage(t, repo, "b-kategorija", 2)
	if n := countInstallments(t, db, p.ID); n != 2 {
		t.Fatalf("seeded plan rows = %d, want 2", n)
	}
	s1 := newStudent(t, repo, strPtr("b-kategorija"), ds.PaymentMethodFull)
	newStudent(t, repo, strPtr("b-kategorija"), ds.PaymentMethodFull)

	err := repo.DeletePackage(ctx, p.ID, false)
	var inUse *repository.PackageInUseError
	if !errors.As(err, &inUse) || inUse.StudentCount != 2 {
		t.Fatalf("expected PackageInUseError with 2 students, got %v", err)
	}
	if _, err := repo.GetPackageByID(ctx, p.ID); err != nil {
		t.Fatalf("package must survive a refused delete: %v", err)
	}

	if err := repo.DeletePackage(ctx, p.ID, true); err != nil {
		t.Fatalf("forced DeletePackage: %v", err)
	}
	if _, err := repo.GetPackageByID(ctx, p.ID); !repository.IsNotFound(err) {
		t.Fatalf("package should be gone, got %v", err)
	}
	if n := countInstallments(t, db, p.ID); n != 0 {
		t.Fatalf("plan rows left after delete = %d", n)
	}

	got, err := repo.GetStudent(ctx, s1.ID)
	if err != nil {
		t.Fatalf("student should survive: %v", err)
	}
	if got.PackageType != nil {
		t.Fatalf("package_type should be null, got %q", *got.PackageType)
	}
	if n, _ := repo.CountStudentsByPackage(ctx, "b-kategorija"); n != 0 {
		t.Fatalf("no student may reference the deleted slug, got %d", n)
	}
}

func TestSignContract(t *testing.T) {
	repo := testutil.NewRepository(t)
	ctx := context.Background()
	newPackage(t, repo, "b-kategorija", 0)
	s := newStudent(t, repo, strPtr("b-kategorija"), ds.PaymentMethodFull)

	signedAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	res, err := repo.SignContract(ctx, repository.SignInput{
		StudentID:     s.ID,
		SignatureData: "data:image/png;base64,AAAA",
		SignedAt:      signedAt,
		NumberPrefix:  "UG",
		Currency:      "EUR",
	})
	if err != nil {
		t.Fatalf("SignContract: %v", err)
	}
	if res.Contract.ContractNumber != "UG-2026-000001" {
		t.Fatalf("contract number = %q", res.Contract.ContractNumber)
	}
	if res.Contract.ContractContent != "Ugovor Ana Anić 1.000,00 EUR" {
		t.Fatalf("content = %q", res.Contract.ContractContent)
	}
	if res.Student.Status != ds.StudentContractSigned {
		t.Fatalf("student status = %q", res.Student.Status)
	}

	stored, err := repo.GetStudent(ctx, s.ID)
	if err != nil || stored.Status != ds.StudentContractSigned {
		t.Fatalf("stored status = %v, %v", stored, err)
	}

	second, err := repo.SignContract(ctx, repository.SignInput{StudentID: s.ID, SignedAt: signedAt, NumberPrefix: "UG"})
	if err != nil {
		t.Fatalf("second SignContract: %v", err)
	}
	if second.Contract.ContractNumber != "UG-2026-000002" {
		t.Fatalf("second number = %q", second.Contract.ContractNumber)
	}
}

func TestSignContractWithoutTemplateWritesNothing(t *testing.T) {
	repo := testutil.NewRepository(t)
	ctx := context.Background()
	newPackage(t, repo, "b-kategorija", 0)

	company := newStudent(t, repo, strPtr("b-kategorija"), ds.PaymentMethodFull)
	company.EntityType = ds.EntityCompany
	company.CompanyName = strPtr("Firma d.o.o.")
	if err := repo.SaveStudent(ctx, company); err != nil {
		t.Fatalf("SaveStudent: %v", err)
	}
	orphan := newStudent(t, repo, nil, ds.PaymentMethodFull)

	_, err := repo.SignContract(ctx, repository.SignInput{StudentID: company.ID, SignedAt: time.Now(), NumberPrefix: "UG"})
	if !errors.Is(err, contract.ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
	_, err = repo.SignContract(ctx, repository.SignInput{StudentID: orphan.ID, SignedAt: time.Now(), NumberPrefix: "UG"})
	if !errors.Is(err, contract.ErrPackageNotFound) {
		t.Fatalf("expected ErrPackageNotFound, got %v", err)
	}

	contracts, err := repo.ListContracts(ctx)
	if err != nil {
		t.Fatalf("ListContracts: %v", err)
	}
	if len(contracts) != 0 {
		t.Fatalf("no contract may be stored, got %d", len(contracts))
	}
	stored, _ := repo.GetStudent(ctx, company.ID)
	if stored.Status != ds.StudentEnrolled {
		t.Fatalf("status changed to %q", stored.Status)
	}
}

func TestContractsAreImmutable(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewWithDB(db)
	ctx := context.Background()
	newPackage(t, repo, "b-kategorija", 0)
	s := newStudent(t, repo, strPtr("b-kategorija"), ds.PaymentMethodFull)

	res, err := repo.SignContract(ctx, repository.SignInput{StudentID: s.ID, SignedAt: time.Now(), NumberPrefix: "UG"})
	if err != nil {
		t.Fatalf("SignContract: %v", err)
	}

	c := res.Contract
	err = db.Model(&c).Update("contract_content", "changed").Error
	if !errors.Is(err, ds.ErrContractImmutable) {
		t.Fatalf("expected ErrContractImmutable, got %v", err)
	}

	stored, err := repo.GetContract(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetContract: %v", err)
	}
	if stored.ContractContent != res.Contract.ContractContent {
		t.Fatalf("content changed to %q", stored.ContractContent)
	}
}

func TestPaymentStatusesScenarioAB(t *testing.T) {
	repo := testutil.NewRepository(t)
	ctx := context.Background()
	newPackage(t, repo, "plan", 3)

	installments := newStudent(t, repo, strPtr("plan"), ds.PaymentMethodInstallments)
	full := newStudent(t, repo, nil, ds.PaymentMethodFull)

	invoices := []ds.Invoice{
		{StudentID: installments.ID, InstallmentNumber: intPtr(1), Status: ds.LedgerPaid},
		{StudentID: installments.ID, InstallmentNumber: intPtr(2), Status: ds.LedgerPaid},
		{StudentID: installments.ID, InstallmentNumber: intPtr(3), Status: ds.LedgerPending},
		{StudentID: full.ID, Status: ds.LedgerPaid},
	}
	for i := range invoices {
		invoices[i].InvoiceDate = time.Now()
		invoices[i].TotalAmount = decimal.NewFromInt(100)
		if err := repo.CreateInvoice(ctx, &invoices[i], "RN"); err != nil {
			t.Fatalf("CreateInvoice: %v", err)
		}
	}

	students, err := repo.ListStudents(ctx, repository.StudentFilter{})
	if err != nil {
		t.Fatalf("ListStudents: %v", err)
	}
	statuses, err := repo.PaymentStatuses(ctx, students)
	if err != nil {
		t.Fatalf("PaymentStatuses: %v", err)
	}

	if got := statuses[installments.ID].String(); got != "2/3" {
		t.Fatalf("installments student: got %q want 2/3", got)
	}
	if got := statuses[full.ID].String(); got != "1/1" {
		t.Fatalf("full student: got %q want 1/1", got)
	}
}

func TestCreateInvoiceNumbersAndVAT(t *testing.T) {
	repo := testutil.NewRepository(t)
	ctx := context.Background()
	s := newStudent(t, repo, nil, ds.PaymentMethodFull)

	for i := 1; i <= 2; i++ {
		inv := &ds.Invoice{
			StudentID:   s.ID,
			InvoiceDate: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
			TotalAmount: decimal.RequireFromString("125"),
			VATRate:     decimal.RequireFromString("25"),
			Status:      ds.LedgerPending,
		}
		if err := repo.CreateInvoice(ctx, inv, "RN"); err != nil {
			t.Fatalf("CreateInvoice: %v", err)
		}
		if want := fmt.Sprintf("RN-2026-%06d", i); inv.InvoiceNumber != want {
			t.Fatalf("number = %q want %q", inv.InvoiceNumber, want)
		}
		if !inv.NetAmount.Equal(decimal.NewFromInt(100)) || !inv.VATAmount.Equal(decimal.NewFromInt(25)) {
			t.Fatalf("net=%s vat=%s", inv.NetAmount, inv.VATAmount)
		}
	}
}

func TestDeleteStudentCascades(t *testing.T) {
	repo := testutil.NewRepository(t)
	ctx := context.Background()
	s := newStudent(t, repo, nil, ds.PaymentMethodFull)

	p := &ds.Payment{StudentID: s.ID, Amount: decimal.NewFromInt(10), Status: ds.LedgerPending}
	if err := repo.CreatePayment(ctx, p); err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}

	if err := repo.DeleteStudent(ctx, s.ID); err != nil {
		t.Fatalf("DeleteStudent: %v", err)
	}
	if _, err := repo.GetPayment(ctx, p.ID); !repository.IsNotFound(err) {
		t.Fatalf("payment should be deleted, got %v", err)
	}
	if err := repo.DeleteStudent(ctx, s.ID); !repository.IsNotFound(err) {
		t.Fatalf("second delete should be not found, got %v", err)
	}
}

func TestDashboardStats(t *testing.T) {
	repo := testutil.NewRepository(t)
	ctx := context.Background()
	newPackage(t, repo, "b-kategorija", 0)
	newPackage(t, repo, "prazan", 0)
	newStudent(t, repo, strPtr("b-kategorija"), ds.PaymentMethodFull)
	newStudent(t, repo, strPtr("b-kategorija"), ds.PaymentMethodFull)
	newStudent(t, repo, nil, ds.PaymentMethodFull)

	stats, err := repo.DashboardStats(ctx)
	if err != nil {
		t.Fatalf("DashboardStats: %v", err)
	}
	if stats.TotalStudents != 3 || stats.ByStatus[ds.StudentEnrolled] != 3 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if stats.ByPackage["b-kategorija"] != 2 {
		t.Fatalf("by_package = %v", stats.ByPackage)
	}
	if !stats.Revenue.Total.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("revenue total = %s", stats.Revenue.Total)
	}
	if n, ok := stats.ByStatus[ds.StudentCompleted]; !ok || n != 0 {
		t.Fatalf("completed must be listed as 0, by_status = %v", stats.ByStatus)
	}
	if n, ok := stats.ByPackage["prazan"]; !ok || n != 0 {
		t.Fatalf("unused package must be listed as 0, by_package = %v", stats.ByPackage)
	}
	if r, ok := stats.Revenue.ByPackage["prazan"]; !ok || !r.IsZero() {
		t.Fatalf("unused package revenue = %v", stats.Revenue.ByPackage)
	}

	raw, err := json.Marshal(stats.Revenue)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"total":2000.00`) {
		t.Fatalf("revenue total must be a JSON number: %s", raw)
	}
	if len(stats.RecentStudents) != 3 {
		t.Fatalf("recent students = %d", len(stats.RecentStudents))
	}
}

func TestCreatePackageDuplicateSlug(t *testing.T) {
	repo := testutil.NewRepository(t)
	ctx := context.Background()
	newPackage(t, repo, "b-kategorija", 0)

	dup := &ds.Package{Name: "Drugi", Slug: "b-kategorija", Price: decimal.NewFromInt(1), PaymentType: ds.PaymentTypeFixed, DurationDays: 60}
	err := repo.CreatePackage(ctx, dup)
	if !repository.IsDuplicate(err) {
		t.Fatalf("expected a duplicate key error, got %v", err)
	}
	if repository.IsDuplicate(nil) || repository.IsDuplicate(errors.New("other")) {
		t.Fatal("IsDuplicate must only match unique violations")
	}
}
