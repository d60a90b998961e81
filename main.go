package main

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"drug-graph/config"
	"drug-graph/models"
	"drug-graph/providers/drugbank"
	"drug-graph/services"
	"drug-graph/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	drugsPopulatedCounter        prometheus.Counter
	interactionsPopulatedCounter prometheus.Counter
	populateDurationGauge        prometheus.Gauge
)

func init() {
	drugsPopulatedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "drugs_populated_total",
			Help: "Total number of drugs written to the database.",
		},
	)
	interactionsPopulatedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "drug_protein_interactions_populated_total",
			Help: "Total number of drug-protein interactions written to the database.",
		},
	)
	populateDurationGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "populate_duration_seconds",
			Help: "Duration of the last populate run in seconds.",
		},
	)
	prometheus.MustRegister(drugsPopulatedCounter, interactionsPopulatedCounter, populateDurationGauge)
}

func apiKeyAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APISecretKey == "" {
			c.Next()
			return
		}
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey != cfg.APISecretKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	logging.Info("Successfully connected to database.")

	logging.Info("Running database auto-migration...")
	db.AutoMigrate(
		&models.Type{},
		&models.Drug{},
		&models.Group{},
		&models.Category{},
		&models.Alias{},
		&models.AtcCode{},
		&models.Patent{},
		&models.DrugXref{},
		&models.Species{},
		&models.Protein{},
		&models.Action{},
		&models.Article{},
		&models.DrugProteinInteraction{},
	)

	// Setup Services
	s3Client, err := storage.NewS3Client(cfg)
	if err != nil {
		logging.Fatal("S3 client creation failed", zap.Error(err))
	}
	fetcher := drugbank.NewFetcher(cfg, logging)
	populateService := services.NewPopulateService(cfg, db, logging)
	graphService := services.NewGraphService(db, logging)
	mappingService := services.NewMappingService(cfg, db, logging)
	patentService := services.NewPatentService(cfg, db, s3Client, logging)

	if populated, err := populateService.IsPopulated(); err != nil {
		logging.Error("Populate check failed", zap.Error(err))
	} else if !populated {
		logging.Warn("Database is empty. Trigger POST /populate or wait for the cron job.")
	}

	// Setup Router
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(apiKeyAuthMiddleware(cfg))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Setup Routes
	setupPopulateRoutes(router, populateService, fetcher, logging)
	setupDrugRoutes(router, db, logging)
	setupPatentRoutes(router, patentService, logging)
	setupMappingRoutes(router, mappingService, logging)
	setupGraphRoutes(router, graphService, logging)

	// Setup Cron: befüllt die Datenbank nur, wenn sie noch leer ist.
	cronScheduler := cron.New()
	cronScheduler.AddFunc(cfg.CronSchedule, func() {
		populated, err := populateService.IsPopulated()
		if err != nil {
			logging.Error("Cron populate check failed", zap.Error(err))
			return
		}
		if populated {
			logging.Info("Database already populated, cron job skipped.")
			return
		}
		logging.Info("Running scheduled populate job...")
		runPopulate(context.Background(), populateService, fetcher, logging)
	})
	cronScheduler.Start()

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

// runPopulate besorgt die Exportdatei und führt den Populate-Lauf aus.
func runPopulate(ctx context.Context, populateService *services.PopulateService, fetcher *drugbank.Fetcher, log *zap.Logger) {
	path, err := fetcher.EnsureLocalCopy(ctx)
	if err != nil {
		log.Error("DrugBank export unavailable", zap.Error(err))
		return
	}

	result, err := populateService.Run(ctx, path)
	if err != nil {
		log.Error("Populate run failed", zap.Error(err))
		return
	}

	drugsPopulatedCounter.Add(float64(result.Drugs))
	interactionsPopulatedCounter.Add(float64(result.Interactions))
	populateDurationGauge.Set(result.Duration.Seconds())
	log.Info("Populate run completed",
		zap.Int("drugs", result.Drugs),
		zap.Int("interactions", result.Interactions),
		zap.Duration("duration", result.Duration))
}

func setupPopulateRoutes(router *gin.Engine, populateService *services.PopulateService, fetcher *drugbank.Fetcher, log *zap.Logger) {
	router.POST("/populate", func(c *gin.Context) {
		populated, err := populateService.IsPopulated()
		if err != nil {
			log.Error("Populate check failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if populated {
			c.JSON(http.StatusConflict, gin.H{"error": "database is already populated"})
			return
		}

		go runPopulate(context.Background(), populateService, fetcher, log)
		c.JSON(http.StatusAccepted, gin.H{"message": "Populate run triggered."})
	})

	router.GET("/summary", func(c *gin.Context) {
		counts, err := populateService.Summarize()
		if err != nil {
			log.Error("Summary query failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, counts)
	})
}

func setupDrugRoutes(router *gin.Engine, db *gorm.DB, log *zap.Logger) {
	rg := router.Group("/drugs")

	rg.GET("/", func(c *gin.Context) {
		limit := 100
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
				return
			}
			limit = parsed
		}

		var drugs []models.Drug
		if err := db.Preload("Type").Limit(limit).Order("drugbank_id").Find(&drugs).Error; err != nil {
			log.Error("Database query for drugs failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, drugs)
	})

	rg.GET("/:drugbank_id", func(c *gin.Context) {
		var drug models.Drug
		err := db.
			Preload("Type").
			Preload("Groups").
			Preload("Categories").
			Preload("Patents").
			Preload("AtcCodes").
			Preload("Aliases").
			Preload("Xrefs").
			Preload("ProteinInteractions").
			Preload("ProteinInteractions.Protein").
			Preload("ProteinInteractions.Actions").
			Preload("ProteinInteractions.Articles").
			Where("drugbank_id = ?", c.Param("drugbank_id")).
			First(&drug).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "drug not found"})
				return
			}
			log.Error("Database query for drug failed", zap.String("drugbank_id", c.Param("drugbank_id")), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, drug)
	})
}

func setupPatentRoutes(router *gin.Engine, patentService *services.PatentService, log *zap.Logger) {
	rg := router.Group("/patents")

	rg.GET("/", func(c *gin.Context) {
		patents, err := patentService.List()
		if err != nil {
			log.Error("Database query for patents failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, patents)
	})

	rg.GET("/export.tsv", func(c *gin.Context) {
		c.Header("Content-Type", "text/tab-separated-values; charset=utf-8")
		if err := patentService.ExportTSV(c.Writer); err != nil {
			log.Error("Patent TSV export failed", zap.Error(err))
		}
	})

	rg.POST("/mirror-pdfs", func(c *gin.Context) {
		go func() {
			count, err := patentService.MirrorPDFs(context.Background())
			if err != nil {
				patentService.Logger.Error("Async patent PDF mirror failed", zap.Error(err))
			} else {
				patentService.Logger.Info("Async patent PDF mirror completed", zap.Int("uploaded", count))
			}
		}()
		c.JSON(http.StatusAccepted, gin.H{"message": "Patent PDF mirror triggered."})
	})

	xg := router.Group("/xrefs")

	xg.GET("/summary", func(c *gin.Context) {
		summary, err := patentService.XrefSummary()
		if err != nil {
			log.Error("Xref summary query failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, summary)
	})

	xg.GET("/:resource/export.tsv", func(c *gin.Context) {
		c.Header("Content-Type", "text/tab-separated-values; charset=utf-8")
		if err := patentService.ExportXrefsTSV(c.Writer, c.Param("resource")); err != nil {
			log.Error("Xref TSV export failed", zap.String("resource", c.Param("resource")), zap.Error(err))
		}
	})
}

func setupMappingRoutes(router *gin.Engine, mappingService *services.MappingService, log *zap.Logger) {
	rg := router.Group("/mappings")

	rg.GET("/drug-to-hgnc-ids", func(c *gin.Context) {
		recalculate := c.Query("recalculate") == "true"
		mapping, err := mappingService.DrugToHGNCIDs(recalculate)
		if err != nil {
			log.Error("Drug-to-HGNC-ID mapping failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, mapping)
	})

	rg.GET("/drug-to-hgnc-symbols", func(c *gin.Context) {
		recalculate := c.Query("recalculate") == "true"
		mapping, err := mappingService.DrugToHGNCSymbols(recalculate)
		if err != nil {
			log.Error("Drug-to-HGNC-symbol mapping failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, mapping)
	})

	rg.GET("/hgnc-to-drugs", func(c *gin.Context) {
		mapping, err := mappingService.HGNCIDToDrugs()
		if err != nil {
			log.Error("HGNC-to-drug mapping failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, mapping)
	})

	router.GET("/interactions/by-hgnc/:id", func(c *gin.Context) {
		interactions, err := mappingService.InteractionsByHGNCID(c.Param("id"))
		if err != nil {
			log.Error("Interaction lookup by HGNC ID failed", zap.String("hgnc_id", c.Param("id")), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if interactions == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no protein with this HGNC id"})
			return
		}
		c.JSON(http.StatusOK, interactions)
	})
}

func setupGraphRoutes(router *gin.Engine, graphService *services.GraphService, log *zap.Logger) {
	router.GET("/export/bel", func(c *gin.Context) {
		opts := services.GraphOptions{
			Name:             c.Query("name"),
			Version:          c.Query("version"),
			DrugNamespace:    c.Query("drug_namespace"),
			HGNCNamespace:    c.Query("hgnc_namespace"),
			UniprotNamespace: c.Query("uniprot_namespace"),
		}
		graph, err := graphService.ExportBEL(opts)
		if err != nil {
			log.Error("BEL export failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, graph)
	})
}
