package v1

import (
	"net/http"
	"time"

	"github.com/avillagra/turnero/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RouterDeps struct {
	Patients     *PatientHandler
	Physicians   *PhysicianHandler
	Appointments *AppointmentHandler
	Collector    *metrics.Collector
	Log          *zap.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(requestLogger(deps.Log))
	r.Use(deps.Collector.GinMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	api := r.Group("/api/v1")
	{
		patients := api.Group("/patients")
		{
			patients.POST("", deps.Patients.Register)
			patients.GET("", deps.Patients.List)
			patients.GET("/:id", deps.Patients.Get)
			patients.PATCH("/:id/contact", deps.Patients.UpdateContact)
			patients.GET("/:id/appointments", deps.Patients.ListAppointments)
		}

		physicians := api.Group("/physicians")
		{
			physicians.POST("", deps.Physicians.Register)
			physicians.GET("", deps.Physicians.List)
			physicians.GET("/:id", deps.Physicians.Get)
			physicians.GET("/:id/availability", deps.Physicians.Availability)
		}

		appointments := api.Group("/appointments")
		{
			appointments.POST("", deps.Appointments.Book)
			appointments.GET("", deps.Appointments.ListByDate)
			appointments.GET("/:id", deps.Appointments.Get)
			appointments.PATCH("/:id/status", deps.Appointments.Transition)
		}
	}

	return r
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString("request_id")),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
