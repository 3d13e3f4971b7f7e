package handler

import (
	"context"
	"time"

	"academy/internal/app/config"
	"academy/internal/app/ds"
	"academy/internal/app/notify"
	"academy/internal/app/redis"
	"academy/internal/app/repository"

	"github.com/gin-gonic/gin"
)

// ContractDocuments renders downloadable contract PDFs and drops archived ones
type ContractDocuments interface {
	ContractPDF(ctx context.Context, c *ds.Contract, student *ds.Student, packageName string) ([]byte, error)
	Forget(ctx context.Context, contractNumbers []string)
}

// Notifier queues post-signing emails
type Notifier interface {
	Enqueue(job notify.ContractSigned) bool
}

type Handler struct {
	Repository  *repository.Repository
	Config      *config.Config
	Documents   ContractDocuments
	Notifier    Notifier
	RedisClient *redis.Client
	now         func() time.Time
}

// NewHandler wires dependencies. docs, notifier and redisClient may be nil.
func NewHandler(r *repository.Repository, cfg *config.Config, docs ContractDocuments, notifier Notifier, redisClient *redis.Client) *Handler {
	registerValidatorTagNames()
	return &Handler{
		Repository:  r,
		Config:      cfg,
		Documents:   docs,
		Notifier:    notifier,
		RedisClient: redisClient,
		now:         time.Now,
	}
}

// Ping answers liveness checks
func (h *Handler) Ping(c *gin.Context) {
	c.JSON(200, gin.H{"message": "pong"})
}
