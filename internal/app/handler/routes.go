package handler

import (
	"academy/internal/app/middleware"
	"academy/internal/app/role"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the REST API. Reads of student data need staff, writes need admin.
func (h *Handler) RegisterRoutes(router *gin.Engine, authMiddleware *middleware.AuthMiddleware) {
	api := router.Group("/api")

	staff := authMiddleware.WithAuthCheck(role.Staff, role.Admin)
	admin := authMiddleware.WithAuthCheck(role.Admin)

	// ============ Auth ============
	auth := api.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/logout", staff, h.Logout)
		auth.GET("/profile", staff, h.Profile)
	}

	// ============ Packages - public catalog, admin writes ============
	packages := api.Group("/packages")
	{
		packages.GET("", h.ListPackages)
		packages.GET("/slug/:slug", h.GetPackageBySlug)
		packages.GET("/:id", h.GetPackage)

		packages.POST("", admin, h.CreatePackage)
		packages.PUT("/:id", admin, h.UpdatePackage)
		packages.DELETE("/:id", admin, h.DeletePackage)
	}

	// ============ Students - public enrollment ============
	students := api.Group("/students")
	{
		students.POST("", h.CreateStudent)

		students.GET("", staff, h.ListStudents)
		students.GET("/:id", staff, h.GetStudent)
		students.PUT("/:id", admin, h.UpdateStudent)
		students.DELETE("/:id", admin, h.DeleteStudent)
	}

	// ============ Contracts - signed by students from the enrollment form ============
	contracts := api.Group("/contracts")
	{
		contracts.POST("/preview", h.PreviewContract)
		contracts.POST("", h.SignContract)

		contracts.GET("", staff, h.ListContracts)
		contracts.GET("/:id", staff, h.GetContract)
		contracts.GET("/:id/pdf", staff, h.DownloadContractPDF)
	}

	// ============ Ledger ============
	payments := api.Group("/payments")
	{
		payments.GET("", staff, h.ListPayments)
		payments.GET("/:id", staff, h.GetPayment)
		payments.POST("", admin, h.CreatePayment)
		payments.PUT("/:id", admin, h.UpdatePayment)
		payments.DELETE("/:id", admin, h.DeletePayment)
		payments.POST("/:id/mark-paid", admin, h.MarkPaymentPaid)
	}

	invoices := api.Group("/invoices")
	{
		invoices.GET("", staff, h.ListInvoices)
		invoices.GET("/:id", staff, h.GetInvoice)
		invoices.POST("", admin, h.CreateInvoice)
		invoices.PUT("/:id", admin, h.UpdateInvoice)
		invoices.DELETE("/:id", admin, h.DeleteInvoice)
		invoices.POST("/:id/mark-paid", admin, h.MarkInvoicePaid)
	}

	api.GET("/dashboard/stats", staff, h.DashboardStats)

	router.GET("/ping", h.Ping)
}
