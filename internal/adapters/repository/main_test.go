package repository

import (
	"io"
	"os"
	"testing"

	"github.com/okian/lineup/pkg/logger"
)

func TestMain(m *testing.M) {
	// Constructors fall back to the global logger.
	if err := logger.InitWithWriter(io.Discard); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}
