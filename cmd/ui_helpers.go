package cmd

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/pterm/pterm"

	"bimigrate/cli/internal/backend"
	"bimigrate/cli/internal/config"
	"bimigrate/cli/internal/conversion"
	"bimigrate/cli/internal/guard"
	"bimigrate/cli/internal/platform"
	"bimigrate/cli/internal/resolver"
	"bimigrate/cli/internal/session"
)

// startInlineSpinner starts a simple inline spinner animation on a single
// line. It displays rotating animation frames followed by the provided text,
// updating the same line in the terminal. The returned function stops the
// spinner and clears the line.
func startInlineSpinner(w io.Writer, text string, frames []string, interval time.Duration) func() {
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		i := 0
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				line := fmt.Sprintf("%s %s", frames[i%len(frames)], text)
				fmt.Fprintf(w, "\r%*s\r", len(line), "")
				return
			case <-ticker.C:
				line := fmt.Sprintf("%s %s", frames[i%len(frames)], text)
				fmt.Fprintf(w, "\r%s", line)
				i++
			}
		}
	}()
	return func() {
		close(stop)
		wg.Wait()
	}
}

var spinnerFrames = []string{"|", "/", "-", "\\"}

// requireSession gates a command on the session state. required ==
// platform.None means any signed-in session is enough. On denial a redirect
// hint is printed and (nil, false) is returned; commands treat that as a clean
// no-op exit, mirroring how a dashboard would bounce to the login page.
func requireSession(required platform.Platform, from string) (*session.Snapshot, bool) {
	snap := session.Default().GetSession()

	active := platform.None
	if snap != nil {
		active = snap.Platform
	}
	d := guard.Check(active, snap != nil, required, from)
	if d.Allow {
		return snap, true
	}

	switch d.Reason {
	case guard.ReasonWrongPlatform:
		fmt.Printf("⚠️  '%s' needs a %s session, but you are signed in to %s.\n", d.From, required, active)
		fmt.Printf("   Run: bimigrate login --platform %s\n", required)
	default:
		fmt.Println("🔒 You're not logged in yet!")
		fmt.Printf("   Run 'bimigrate login' to get started, then retry '%s'.\n", d.From)
	}
	return nil, false
}

// requiredPlatform maps an optional --platform flag value to a gate
// requirement. Empty means "whichever platform the session is on".
func requiredPlatform(s string) (platform.Platform, error) {
	if strings.TrimSpace(s) == "" {
		return platform.None, nil
	}
	p := platform.Parse(s)
	if !p.Valid() {
		return platform.None, fmt.Errorf("unknown platform %q (use tableau or microstrategy)", s)
	}
	return p, nil
}

// backendFor builds the backend client for the session's platform with the
// session token attached.
func backendFor(snap *session.Snapshot) (*backend.HTTP, error) {
	cfg, _ := config.Load()
	base, err := platform.ResolveBaseAddress(snap.Platform, cfg)
	if err != nil {
		return nil, err
	}
	be := backend.New(base, snap.Platform)
	be.SetToken(snap.AuthToken)
	return be, nil
}

// fetcherFor wraps the backend client in an endpoint resolver seeded with the
// platform family's primary routes.
func fetcherFor(snap *session.Snapshot, be *backend.HTTP) *resolver.Fetcher {
	eps := backend.EndpointsFor(snap.Platform)
	return resolver.New(be, resolver.PrimaryEndpoints{
		Projects:           eps.Projects,
		Workbooks:          eps.Workbooks,
		ProjectDatasources: eps.ProjectDatasources,
	})
}

// newOrchestrator builds a conversion orchestrator over the backend client
// with the configured poll cadence.
func newOrchestrator(be *backend.HTTP) *conversion.Orchestrator {
	cfg, _ := config.Load()
	return conversion.NewOrchestrator(be, time.Duration(cfg.PollIntervalSeconds)*time.Second)
}

// requireWorkbook returns the selected workbook or prints a hint.
func requireWorkbook() (*session.Entity, bool) {
	wb := session.Default().GetSelection(session.LevelWorkbook)
	if wb == nil {
		fmt.Println("⚠️  No workbook selected.")
		fmt.Println("   Run 'bimigrate workbooks' to list them, then 'bimigrate use workbook <id>'.")
		return nil, false
	}
	return wb, true
}

// renderResources prints a resource listing as a table. Expressions are
// included as a column only when any item carries one.
func renderResources(title string, items []resolver.Resource) {
	pterm.Println(pterm.NewStyle(pterm.FgLightCyan, pterm.Bold).Sprint(title))
	if len(items) == 0 {
		pterm.Println("  (none found)")
		return
	}

	withExpr := false
	for _, it := range items {
		if it.Expression != "" {
			withExpr = true
			break
		}
	}

	data := pterm.TableData{}
	if withExpr {
		data = append(data, []string{"ID", "NAME", "EXPRESSION"})
	} else {
		data = append(data, []string{"ID", "NAME"})
	}
	for _, it := range items {
		if withExpr {
			data = append(data, []string{it.ID, it.Name, it.Expression})
		} else {
			data = append(data, []string{it.ID, it.Name})
		}
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// workbookLabel returns the friendliest identifier for a workbook selection.
func workbookLabel(wb *session.Entity) string {
	if wb.Name != "" {
		return wb.Name
	}
	return wb.ID
}

// warnIfDegraded tells the user when session persistence has been lost.
func warnIfDegraded() {
	if session.Default().Degraded() {
		fmt.Println("⚠️  Session storage is unavailable; your session will last only for this run.")
	}
}
