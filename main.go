package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		logrus.WithError(err).Error("pigment failed")
		os.Exit(1)
	}
}
