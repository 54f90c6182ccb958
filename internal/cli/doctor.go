package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/daybook/internal/keyring"
	"github.com/julianstephens/daybook/internal/logger"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	hasError := false

	// Check 1: configuration
	if err := ctx.Config.Validate(); err != nil {
		ctx.printf("❌ Configuration: FAIL\n")
		ctx.printf("   Error: %v\n", err)
		hasError = true
	} else {
		ctx.printf("✓ Configuration: OK (%s)\n", ctx.Config.Dir)
	}
	if path := logger.File(); path != "" {
		ctx.printf("   Log file: %s\n", path)
	}

	// Check 2: preference database
	if size, err := checkPreferences(ctx); err != nil {
		ctx.printf("❌ Preference database: FAIL\n")
		ctx.printf("   Error: %v\n", err)
		hasError = true
	} else {
		ctx.printf("✓ Preference database: OK (%s, %s)\n", ctx.Prefs.Path(), size)
	}

	// Check 3: keyring (warning only, the settings table stands in)
	if keyring.IsAvailable() {
		ctx.printf("✓ OS keyring: OK\n")
	} else {
		ctx.printf("⚠ OS keyring: WARNING\n")
		ctx.printf("   Not available; the device identity is kept in the preference database\n")
	}

	// Check 4: diary service
	if id := ctx.Identity.EnsureIdentity(context.Background()); id.Present() {
		ctx.printf("✓ Diary service: OK (%s)\n", ctx.Config.API.BaseURL)
	} else {
		ctx.printf("❌ Diary service: FAIL\n")
		ctx.printf("   Error: no device identity from %s\n", ctx.Config.API.BaseURL)
		hasError = true
	}

	ctx.println()
	if hasError {
		ctx.println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.println("All diagnostics passed!")
	return nil
}

// checkPreferences reads the stored preferences and reports the database size
func checkPreferences(ctx *Context) (string, error) {
	if _, err := ctx.Prefs.Load(); err != nil {
		return "", err
	}
	info, err := os.Stat(ctx.Prefs.Path())
	if err != nil {
		return "", fmt.Errorf("failed to stat database: %w", err)
	}
	return humanize.Bytes(uint64(info.Size())), nil
}
