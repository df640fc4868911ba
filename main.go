package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"backlink-radar/config"
	"backlink-radar/models"
	"backlink-radar/providers/textgen"
	"backlink-radar/services"
	"backlink-radar/storage"

	"github.com/aws/aws-sdk-go-v2/service/s3"
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
	backlinksImportedCounter prometheus.Counter
	importRowErrorsCounter   prometheus.Counter
	gapAnalysesCounter       prometheus.Counter
)

func init() {
	backlinksImportedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "backlinks_imported_total",
			Help: "Total number of backlink records inserted by imports.",
		},
	)
	importRowErrorsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "import_row_errors_total",
			Help: "Total number of import rows skipped due to coercion errors.",
		},
	)
	gapAnalysesCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gap_analyses_total",
			Help: "Total number of competitor gap analyses run.",
		},
	)
	prometheus.MustRegister(backlinksImportedCounter, importRowErrorsCounter, gapAnalysesCounter)
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

	// Setup Database Connection
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	logging.Info("Successfully connected to backlinks database.")

	// Auto-Migration
	logging.Info("Running database auto-migration...")
	db.AutoMigrate(
		&models.Backlink{},
		&models.GapLink{},
		&models.OutreachCampaign{},
		&models.OutreachEmail{},
		&models.SummarySnapshot{},
	)

	// Seeding
	seedDemoBacklinks(db, logging)

	// Setup Stores & Services
	backlinkStore := &storage.GormBacklinkStore{DB: db}
	gapStore := &storage.GormGapStore{DB: db}
	importService := services.NewImportService(backlinkStore, logging)
	gapService := services.NewGapService(gapStore, logging)
	textGenClient := textgen.NewClient(cfg, logging)
	outreachService := services.NewOutreachService(db, textGenClient, logging)

	s3Client, err := storage.NewS3Client(cfg)
	if err != nil {
		logging.Fatal("S3 archive client creation failed", zap.Error(err))
	}
	if s3Client == nil {
		logging.Info("Export archival disabled (no S3 archive configured).")
	}

	// Setup Router
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(apiKeyAuthMiddleware(cfg))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "connected",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// Setup Routes
	setupBacklinkRoutes(router, db, backlinkStore, importService, logging)
	setupExportRoutes(router, db, s3Client, cfg, logging)
	setupCompetitorRoutes(router, gapService, logging)
	setupDisavowRoutes(router, s3Client, cfg, logging)
	setupCampaignRoutes(router, db, logging)
	setupEmailRoutes(router, outreachService, logging)

	// Setup Cron: periodic summary snapshots for trend charts
	cronScheduler := cron.New()
	cronScheduler.AddFunc(cfg.SnapshotSchedule, func() {
		logging.Info("Running scheduled summary snapshot...")
		if err := writeSummarySnapshot(db, backlinkStore); err != nil {
			logging.Error("Summary snapshot failed", zap.Error(err))
		} else {
			logging.Info("Summary snapshot stored.")
		}
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

func setupBacklinkRoutes(router *gin.Engine, db *gorm.DB, store storage.BacklinkStore, importService *services.ImportService, log *zap.Logger) {
	rg := router.Group("/backlinks")

	// GET with optional filters for the dashboard table
	rg.GET("/", func(c *gin.Context) {
		query := db.Model(&models.Backlink{})

		if risk := c.Query("risk_level"); risk != "" {
			query = query.Where("risk_level = ?", risk)
		}
		if minDA := c.Query("min_da"); minDA != "" {
			v, err := strconv.Atoi(minDA)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "min_da must be an integer"})
				return
			}
			query = query.Where("domain_authority >= ?", v)
		}
		if maxDA := c.Query("max_da"); maxDA != "" {
			v, err := strconv.Atoi(maxDA)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "max_da must be an integer"})
				return
			}
			query = query.Where("domain_authority <= ?", v)
		}
		if linkType := c.Query("link_type"); linkType != "" {
			query = query.Where("link_type = ?", linkType)
		}

		limit := 100
		if raw := c.Query("limit"); raw != "" {
			if v, err := strconv.Atoi(raw); err == nil && v > 0 {
				limit = v
			}
		}
		offset := 0
		if raw := c.Query("offset"); raw != "" {
			if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
				offset = v
			}
		}

		var links []models.Backlink
		if err := query.Offset(offset).Limit(limit).Find(&links).Error; err != nil {
			log.Error("Database query for backlinks failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"backlinks": links,
			"total":     len(links),
			"limit":     limit,
			"offset":    offset,
		})
	})

	// POST - Import a CSV export (Ahrefs/SEMrush/Moz column layouts supported)
	rg.POST("/import", func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file upload is required"})
			return
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".csv") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Only CSV files are supported"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file"})
			return
		}
		defer file.Close()

		rows, err := parseCSVRows(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Failed to parse CSV: %v", err)})
			return
		}

		report, err := importService.ImportBatch(rows)
		if err != nil {
			if errors.Is(err, services.ErrEmptyBatch) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "CSV file is empty"})
				return
			}
			log.Error("Import batch failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "import failed"})
			return
		}

		backlinksImportedCounter.Add(float64(report.Inserted))
		importRowErrorsCounter.Add(float64(report.Errors))

		c.JSON(http.StatusOK, gin.H{
			"status":     "ok",
			"inserted":   report.Inserted,
			"errors":     report.Errors,
			"total_rows": report.TotalRows,
			"message":    fmt.Sprintf("Successfully imported %d backlinks. %d rows had errors.", report.Inserted, report.Errors),
		})
	})

	// GET - Intelligence summary for charts/cards
	rg.GET("/summary", func(c *gin.Context) {
		records, err := store.All()
		if err != nil {
			log.Error("Failed to load backlinks for summary", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, services.Summarize(records))
	})

	// GET - Stored snapshot history for trend charts
	rg.GET("/summary/history", func(c *gin.Context) {
		var snapshots []models.SummarySnapshot
		if err := db.Order("created_at desc").Find(&snapshots).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, snapshots)
	})

	rg.GET("/:id", func(c *gin.Context) {
		id := c.Param("id")
		var link models.Backlink
		if err := db.First(&link, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Backlink not found"})
				return
			}
			log.Error("DB error fetching backlink", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, link)
	})
}

// parseCSVRows reads an uploaded CSV into named rows. Ragged rows are
// tolerated; missing cells simply stay absent, which the importer reports as
// row errors where the field is required.
func parseCSVRows(r io.Reader) ([]services.Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rows []services.Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(services.Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func setupExportRoutes(router *gin.Engine, db *gorm.DB, s3Client *s3.Client, cfg *config.Config, log *zap.Logger) {
	rg := router.Group("/export")

	rg.GET("/backlinks.csv", func(c *gin.Context) {
		var links []models.Backlink
		if err := db.Find(&links).Error; err != nil {
			log.Error("Database query for CSV export failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		data, err := renderBacklinksCSV(links)
		if err != nil {
			log.Error("CSV rendering failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
			return
		}

		if s3Client != nil {
			key := fmt.Sprintf("exports/backlinks-%s.csv", time.Now().UTC().Format("2006-01-02T15-04-05Z"))
			if link, err := storage.ArchiveExport(s3Client, cfg, key, data); err != nil {
				log.Warn("Failed to archive CSV export", zap.Error(err))
			} else {
				log.Info("CSV export archived", zap.String("link", link))
			}
		}

		c.Header("Content-Disposition", "attachment; filename=backlinks.csv")
		c.Data(http.StatusOK, "text/csv", data)
	})
}

func renderBacklinksCSV(links []models.Backlink) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"backlink_source", "source_domain", "anchor_text", "target_url", "domain_authority", "nofollow", "date_found", "link_type", "risk_level"}
	if err := writer.Write(header); err != nil {
		return nil, err
	}
	for _, l := range links {
		da := ""
		if l.DomainAuthority != nil {
			da = strconv.Itoa(*l.DomainAuthority)
		}
		nofollow := ""
		if l.Nofollow != nil {
			nofollow = strconv.FormatBool(*l.Nofollow)
		}
		dateFound := ""
		if l.DateFound != nil {
			dateFound = l.DateFound.UTC().Format(time.RFC3339)
		}
		record := []string{l.BacklinkSource, l.SourceDomain, l.AnchorText, l.TargetURL, da, nofollow, dateFound, l.LinkType, l.RiskLevel}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setupCompetitorRoutes(router *gin.Engine, gapService *services.GapService, log *zap.Logger) {
	rg := router.Group("/competitors")

	rg.POST("/analyze", func(c *gin.Context) {
		var req struct {
			YourDomain  string   `json:"your_domain"`
			Competitors []string `json:"competitors"`
			MinDA       int      `json:"min_da"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if req.YourDomain == "" {
			req.YourDomain = "yourdomain.com"
		}

		analysis, err := gapService.Analyze(req.YourDomain, req.Competitors, req.MinDA)
		if err != nil {
			log.Error("Competitor gap analysis failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Competitor analysis failed"})
			return
		}
		gapAnalysesCounter.Inc()

		c.JSON(http.StatusOK, gin.H{
			"status":                "success",
			"your_domain":           analysis.YourDomain,
			"competitors_analyzed":  analysis.CompetitorsAnalyzed,
			"gaps":                  analysis.Gaps,
			"bubbles":               analysis.Bubbles,
			"content_opportunities": analysis.ContentOpportunities,
			"summary":               analysis.Summary,
		})
	})
}

func setupDisavowRoutes(router *gin.Engine, s3Client *s3.Client, cfg *config.Config, log *zap.Logger) {
	rg := router.Group("/disavow")

	rg.POST("/generate", func(c *gin.Context) {
		var domains []string
		if err := c.ShouldBindJSON(&domains); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: expected a JSON array of domains"})
			return
		}

		content := services.RenderDisavowFile(domains, time.Now())

		if s3Client != nil {
			key := fmt.Sprintf("disavow/disavow-%s.txt", time.Now().UTC().Format("2006-01-02T15-04-05Z"))
			if link, err := storage.ArchiveExport(s3Client, cfg, key, []byte(content)); err != nil {
				log.Warn("Failed to archive disavow file", zap.Error(err))
			} else {
				log.Info("Disavow file archived", zap.String("link", link))
			}
		}

		c.Header("Content-Disposition", "attachment; filename=disavow.txt")
		c.Data(http.StatusOK, "text/plain", []byte(content))
	})
}

func setupCampaignRoutes(router *gin.Engine, db *gorm.DB, log *zap.Logger) {
	rg := router.Group("/campaigns")

	rg.POST("/", func(c *gin.Context) {
		var payload struct {
			Name           string `json:"name"`
			URLToPromote   string `json:"url_to_promote"`
			TargetKeywords string `json:"target_keywords"`
			ProspectType   string `json:"prospect_type"`
			EmailTone      string `json:"email_tone"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		if payload.Name == "" {
			payload.Name = "Untitled"
		}

		camp := models.OutreachCampaign{
			Name:           payload.Name,
			URLToPromote:   payload.URLToPromote,
			TargetKeywords: payload.TargetKeywords,
			ProspectType:   payload.ProspectType,
			EmailTone:      payload.EmailTone,
			Status:         "Active",
		}
		if err := db.Create(&camp).Error; err != nil {
			log.Error("Failed to create campaign", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create campaign"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"status": "ok", "campaign_id": camp.ID})
	})

	// Static series until real tracking lands; the dashboard chart expects
	// exactly this shape.
	rg.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"series": gin.H{
				"labels":     []string{"Week 1", "Week 2", "Week 3", "Week 4"},
				"open_rate":  []int{65, 68, 72, 67},
				"reply_rate": []int{18, 21, 25, 23},
			},
			"totals": gin.H{"links_acquired": 12, "active_prospects": 156},
		})
	})
}

func setupEmailRoutes(router *gin.Engine, outreachService *services.OutreachService, log *zap.Logger) {
	rg := router.Group("/emails")

	rg.POST("/generate", func(c *gin.Context) {
		var req services.EmailRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Field 'step' is required and must be an integer."})
			return
		}

		email, err := outreachService.GenerateEmail(c.Request.Context(), req)
		if err != nil {
			log.Error("Email generation failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate email"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"subject": email.Subject, "body": email.Body, "id": email.ID})
	})
}

// writeSummarySnapshot aggregates the current backlink set and stores the
// result for the history endpoint.
func writeSummarySnapshot(db *gorm.DB, store storage.BacklinkStore) error {
	records, err := store.All()
	if err != nil {
		return err
	}
	report := services.Summarize(records)
	return db.Create(&models.SummarySnapshot{
		TotalBacklinks:   report.Cards.TotalBacklinks,
		ReferringDomains: report.Cards.ReferringDomains,
		AverageDA:        report.Cards.AverageDA,
		HealthyLinks:     report.HealthScorecard.Healthy,
		WarningLinks:     report.HealthScorecard.Warning,
		ToxicLinks:       report.HealthScorecard.Toxic,
	}).Error
}

func seedDemoBacklinks(db *gorm.DB, logger *zap.Logger) {
	var count int64
	db.Model(&models.Backlink{}).Count(&count)
	if count > 0 {
		return
	}

	now := time.Now().UTC()
	intPtr := func(v int) *int { return &v }
	boolPtr := func(v bool) *bool { return &v }

	demo := []models.Backlink{
		{
			BacklinkSource:  "https://spammysite.com/bad",
			SourceDomain:    "spammysite.com",
			AnchorText:      "cheap loans",
			DomainAuthority: intPtr(8),
			Nofollow:        boolPtr(true),
			DateFound:       &now,
			LinkType:        "footer",
			RiskLevel:       models.RiskHigh,
		},
		{
			BacklinkSource:  "https://qualityblog.com/good",
			SourceDomain:    "qualityblog.com",
			AnchorText:      "financial planning",
			DomainAuthority: intPtr(67),
			Nofollow:        boolPtr(false),
			DateFound:       &now,
			LinkType:        "editorial",
			RiskLevel:       models.RiskLow,
		},
		{
			BacklinkSource:  "https://mediumblog.net/ok",
			SourceDomain:    "mediumblog.net",
			AnchorText:      "click here",
			DomainAuthority: intPtr(34),
			Nofollow:        boolPtr(false),
			DateFound:       &now,
			LinkType:        "contextual",
			RiskLevel:       models.RiskMedium,
		},
	}
	if err := db.Create(&demo).Error; err != nil {
		logger.Warn("Failed to seed demo backlinks", zap.Error(err))
	} else {
		logger.Info("Demo backlinks seeded.")
	}
}
