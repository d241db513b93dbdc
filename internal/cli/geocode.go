package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jengzang/safeguard-backend/internal/logger"
	"github.com/jengzang/safeguard-backend/internal/repository"
	"github.com/jengzang/safeguard-backend/internal/service"
)

var (
	geocodeInput  string
	geocodeOutput string
)

var geocodeCmd = &cobra.Command{
	Use:   "geocode-crimes",
	Short: "Geocode the crime location list into the heatmap dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		log := logger.L()

		input, output := geocodeInput, geocodeOutput
		if input == "" {
			input = cfg.Geocoder.InputFile
		}
		if output == "" {
			output = cfg.Heatmap.CrimeDataFile
		}

		db, err := openDatabase(cfg, log)
		if err != nil {
			return err
		}
		defer db.Close()

		svc := service.NewGeocodingService(repository.NewGeocodingRepository(db), newGeocoder(cfg), service.GeocodingConfig{
			Delay: cfg.Geocoder.Delay,
		}, log)

		task, err := svc.RunTask(cmd.Context(), "cli", input, output)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Geocoded %d of %d locations (%d failed) into %s\n",
			task.ProcessedPoints, task.TotalPoints, task.FailedPoints, output)
		return nil
	},
}

func init() {
	geocodeCmd.Flags().StringVar(&geocodeInput, "input", "", "crime location list (default: geocoder.input_file)")
	geocodeCmd.Flags().StringVar(&geocodeOutput, "output", "", "geocoded dataset (default: heatmap.crime_data_file)")
}
