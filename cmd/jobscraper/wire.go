package main

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"go-job-scraper/internal/ai"
	"go-job-scraper/internal/browser"
	"go-job-scraper/internal/config"
	"go-job-scraper/internal/controller"
	"go-job-scraper/internal/export"
	"go-job-scraper/internal/orchestrator"
	"go-job-scraper/internal/reporter"
	"go-job-scraper/internal/scraper"
	"go-job-scraper/internal/scraper/indeed"
	"go-job-scraper/internal/scraper/internshala"
	"go-job-scraper/internal/scraper/linkedin"
)

func buildOrchestrator(cfg *config.Config) (*orchestrator.Orchestrator, error) {
	extractors, err := buildExtractors(cfg, buildInterpreter(cfg))
	if err != nil {
		return nil, err
	}
	return orchestrator.New(
		buildLauncher(cfg),
		export.New(cfg.Output.Dir),
		extractors,
		cfg.Scrape.ExtractorTimeout,
	), nil
}

func buildLauncher(cfg *config.Config) browser.Launcher {
	opts := browser.Options{
		Headless:          *cfg.Browser.Headless,
		UserAgent:         cfg.Browser.UserAgent,
		CookiesDir:        cfg.Browser.CookiesPath,
		NavigationTimeout: cfg.Scrape.NavigationTimeout,
		WaitTimeout:       cfg.Scrape.WaitTimeout,
		ScrollPause:       cfg.Scrape.ScrollPause,
	}
	if cfg.Browser.Screenshots {
		opts.ScreenshotDir = cfg.Browser.ScreenshotDir
	}
	return browser.NewPlaywright(opts)
}

// buildExtractors follows the order of scrape.sources.
func buildExtractors(cfg *config.Config, interp ai.Interpreter) ([]scraper.Extractor, error) {
	extractors := make([]scraper.Extractor, 0, len(cfg.Scrape.Sources))
	for _, name := range cfg.Scrape.Sources {
		switch name {
		case "linkedin_jobs":
			extractors = append(extractors, linkedin.NewJobsScraper())
		case "indeed":
			extractors = append(extractors, indeed.NewScraper(cfg.Browser.UserAgent, cfg.Scrape.HTTPTimeout))
		case "internshala":
			extractors = append(extractors, internshala.NewScraper())
		case "linkedin_posts":
			extractors = append(extractors, linkedin.NewPostsScraper(interp))
		default:
			return nil, fmt.Errorf("unknown source %q", name)
		}
	}
	return extractors, nil
}

// buildInterpreter returns an untyped nil when AI assist is off so that
// callers' nil checks work.
func buildInterpreter(cfg *config.Config) ai.Interpreter {
	if !cfg.AIEnabled() {
		log.Debug().Msg("AI assist disabled (no OPENAI_API_KEY)")
		return nil
	}
	log.Info().Str("model", cfg.AI.Model).Msg("🤖 AI assist enabled")
	return ai.NewOpenAIClient(cfg.AI.APIKey, cfg.AI.Model, cfg.AI.BaseURL)
}

// buildNotifier never fails the command: a broken bot only loses notifications.
func buildNotifier(cfg *config.Config) controller.Notifier {
	if !cfg.TelegramEnabled() {
		return nil
	}
	rep, err := reporter.NewTelegramReporter(cfg.Telegram.Token, cfg.Telegram.ChatID)
	if err != nil {
		log.Warn().Err(err).Msg("⚠️ Telegram disabled")
		return nil
	}
	log.Info().Msg("📨 Telegram notifications enabled")
	return rep
}
