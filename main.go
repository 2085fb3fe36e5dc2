package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"page-health-checker/ai"
	"page-health-checker/config"
	"page-health-checker/health"
)

const reportFileName = "health_report.json"

// Type definitions
type CheckRequest struct {
	URL       string `json:"url" form:"url" binding:"required"`
	Backend   string `json:"backend"`
	Summarize bool   `json:"summarize"`
}

type CheckResponse struct {
	Report   *health.Report `json:"report"`
	Analysis string         `json:"analysis,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// Server type
type Server struct {
	router   *gin.Engine
	port     string
	settings *config.Settings
}

func main() {
	cfg := config.Load()

	if len(os.Args) > 1 && os.Args[1] == "serve" {
		server := NewServer(cfg)
		server.SetupRoutes()

		log.Printf("Starting page health checker server on port %s", cfg.Server.Port)
		if err := server.Run(); err != nil {
			log.Fatal("Failed to start server:", err)
		}
		return
	}

	runInteractive(cfg)
}

// runInteractive prompts for a URL, runs the full check, writes the
// report to disk, and prints the AI summary when a key is configured.
func runInteractive(cfg *config.Settings) {
	fmt.Print("Enter the URL to check: ")

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		log.Fatal("Failed to read URL:", err)
	}

	target := strings.TrimSpace(input)
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		fmt.Println("Invalid URL. Please include http:// or https://")
		os.Exit(1)
	}

	checker := health.NewDefaultChecker(cfg)
	report := checker.Run(context.Background(), target)

	reportJSON, err := report.JSON()
	if err != nil {
		log.Fatal("Failed to serialize report:", err)
	}

	fmt.Println("\n--- Health Check Report ---")
	fmt.Println(string(reportJSON))

	if err := report.Save(reportFileName); err != nil {
		log.Printf("Failed to save report to %s: %v", reportFileName, err)
	} else {
		log.Printf("Report saved to %s", reportFileName)
	}

	if cfg.AI.APIKey == "" {
		fmt.Println("Skipping AI analysis: OPENAI_API_KEY not set.")
		return
	}

	analyzer := newAnalyzer(cfg.AI.Backend, cfg, report.PageExcerpt)

	fmt.Println("\n--- AI Analysis ---")
	fmt.Println(ai.Summarize(context.Background(), analyzer, string(reportJSON)))
}

// newAnalyzer selects the summarizer backend. Anything other than
// "cot" gets the direct analyzer.
func newAnalyzer(backend string, cfg *config.Settings, excerpt string) ai.Analyzer {
	if strings.EqualFold(backend, "cot") {
		prioritizer := ai.NewCoTPrioritizer(cfg.AI)
		prioritizer.PageExcerpt = excerpt
		return prioritizer
	}
	analyzer := ai.NewOpenAIAnalyzer(cfg.AI)
	analyzer.PageExcerpt = excerpt
	return analyzer
}

// Server methods
func NewServer(cfg *config.Settings) *Server {
	r := gin.Default()

	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		c.AbortWithStatus(500)
	}))

	return &Server{
		router:   r,
		port:     cfg.Server.Port,
		settings: cfg,
	}
}

func (s *Server) SetupRoutes() {
	s.router.GET("/", s.infoHandler)
	s.router.POST("/check", s.checkHandler)
}

func (s *Server) Run() error {
	return s.router.Run(":" + s.port)
}

func (s *Server) infoHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "page-health-checker",
		"check":   "POST /check with {\"url\": \"https://...\", \"summarize\": true, \"backend\": \"direct|cot\"}",
	})
}

func (s *Server) checkHandler(c *gin.Context) {
	var req CheckRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, CheckResponse{Error: "url is required"})
		return
	}

	target := strings.TrimSpace(req.URL)
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		c.JSON(http.StatusBadRequest, CheckResponse{Error: "Invalid URL. Please include http:// or https://"})
		return
	}

	checker := health.NewDefaultChecker(s.settings)
	report := checker.Run(c.Request.Context(), target)

	resp := CheckResponse{Report: report}

	if req.Summarize {
		if s.settings.AI.APIKey == "" {
			resp.Analysis = "Skipping AI analysis: OPENAI_API_KEY not set."
		} else {
			reportJSON, err := report.JSON()
			if err != nil {
				c.JSON(http.StatusInternalServerError, CheckResponse{Error: "failed to serialize report"})
				return
			}
			backend := req.Backend
			if backend == "" {
				backend = s.settings.AI.Backend
			}
			analyzer := newAnalyzer(backend, s.settings, report.PageExcerpt)
			resp.Analysis = ai.Summarize(c.Request.Context(), analyzer, string(reportJSON))
		}
	}

	c.JSON(http.StatusOK, resp)
}
