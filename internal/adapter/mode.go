package adapter

import (
	"os"
	"sync"
)

// Mode represents the runtime mode of the application
type Mode int

const (
	ModeUnknown Mode = iota
	ModeLambda
	ModeCLI
)

func (m Mode) String() string {
	switch m {
	case ModeLambda:
		return "lambda"
	case ModeCLI:
		return "cli"
	default:
		return "unknown"
	}
}

var (
	currentMode Mode
	modeOnce    sync.Once
)

// DetectMode determines and sets the runtime mode of the application
func DetectMode() Mode {
	modeOnce.Do(func() {
		currentMode = modeFromEnv()
	})
	return currentMode
}

func modeFromEnv() Mode {
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		return ModeLambda
	}
	return ModeCLI
}

// IsLambda returns true if running in AWS Lambda mode
func IsLambda() bool {
	return DetectMode() == ModeLambda
}

// IsCLI returns true if running as a one-shot command
func IsCLI() bool {
	return DetectMode() == ModeCLI
}
