package main

import (
	"flag"
	"os"

	"github.com/joho/godotenv"

	"fitness-insights-go/internal/logger"
	"fitness-insights-go/internal/report"
)

func main() {
	_ = godotenv.Load()

	in := flag.String("in", "profiles.xlsx", "input workbook with one profile per row")
	out := flag.String("out", "metrics.xlsx", "output workbook")
	sheet := flag.String("sheet", "", "input sheet name (default: first sheet)")
	flag.Parse()

	log := logger.New(os.Getenv("ENVIRONMENT"), os.Getenv("LOG_LEVEL"))
	if _, err := report.Run(*in, *out, *sheet, log); err != nil {
		log.WithError(err).Fatal("metrics report failed")
	}
}
