package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/client"
	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/config"
	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/logger"
	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/models"
)

func main() {
	patient := flag.String("patient", "", "patient id to focus on; empty shows the whole batch")
	flag.Parse()

	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Console logging goes to stderr so the display owns stdout
	log, err := logger.NewLogger(cfg.Log.Level, "console", "cds-bedside")
	if err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer log.Sync()

	// 3. Poller with a render callback
	var p *client.Poller
	render := func(snap client.Snapshot) {
		renderSnapshot(snap, p.SelectedScorecard(), *patient)
	}
	p = client.New(cfg.Client.BaseURL, cfg.Client.PollInterval, cfg.Client.Timeout, log, render)
	if *patient != "" {
		p.SetSelected(*patient)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go p.Run(ctx)

	fmt.Printf("Polling %s every %s (Ctrl+C to quit)\n", cfg.Client.BaseURL, cfg.Client.PollInterval)

	// 4. Wait for a signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	p.Stop()
	cancel()
	fmt.Println("\nBedside viewer stopped")
}

func renderSnapshot(snap client.Snapshot, card *models.Scorecard, patientID string) {
	if snap.Empty() {
		fmt.Println("-- no scorecard data yet --")
		return
	}

	batch := snap.Batch
	fmt.Printf("\n=== Batch %s | %d patients | %d high-risk ===\n",
		batch.GeneratedAt.Format(time.RFC3339),
		len(batch.Items),
		batch.HighRiskCount())
	if snap.Stale() {
		fmt.Printf("!!! STALE since %s, last poll failed: %v\n",
			snap.FetchedAt.Format(time.RFC3339),
			snap.LastErr)
	}

	if patientID == "" {
		for i := range batch.Items {
			item := &batch.Items[i]
			fmt.Printf("%-10s %s  temp %+.2f degC\n",
				item.PatientID,
				levelSummary(&item.RiskLevels),
				item.TemperatureAdjustC)
		}
		return
	}

	if card == nil {
		fmt.Printf("Patient %s is not in the current batch.\n", patientID)
		return
	}
	printCard(card)
}

func levelSummary(levels *models.RiskLevels) string {
	out := ""
	for _, cat := range models.Categories() {
		if out != "" {
			out += " "
		}
		out += fmt.Sprintf("%s:%s", cat, levels.ForCategory(cat))
	}
	return out
}

func printCard(card *models.Scorecard) {
	fmt.Printf("Patient %s @ %s\n", card.PatientID, card.Timestamp.Format(time.RFC3339))
	for _, cat := range models.Categories() {
		prob := card.Probabilities.ForCategory(cat)
		level := card.RiskLevels.ForCategory(cat)
		if prob == nil {
			fmt.Printf("  %-10s %-5s prob N/A\n", cat, level)
		} else {
			fmt.Printf("  %-10s %-5s prob %.2f\n", cat, level, *prob)
		}
	}
	fmt.Printf("  temperature adjustment %+.2f degC\n", card.TemperatureAdjustC)
	fmt.Println("  recommendations:")
	for i, rec := range card.Recommendations {
		fmt.Printf("    %d. %s\n", i+1, rec)
	}
}
