package stats

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/abdallah-zarea/savior-bot/internal/application"
	"github.com/abdallah-zarea/savior-bot/internal/domain"
)

const barWidth = 24

type RenderOptions struct {
	Now time.Time
	// StaleAfter flags conversations claimed longer ago than this. Zero
	// disables the flag.
	StaleAfter time.Duration
}

func renderView(stats application.Stats, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Savior Desk"),
		s.header.Render(fmt.Sprintf(
			"requesters: %d  banned: %d  operators: %d  longform: %d",
			stats.Requesters, stats.Banned, stats.Operators, stats.LongformSessions,
		)),
	}
	if up := uptime(stats.StartedAt, opts.Now); up != "" {
		lines = append(lines, s.meta.Render("up "+up))
	}

	lines = append(lines, s.section.Render(s.key.Render(fmt.Sprintf("active conversations: %d", stats.ActiveClaims))))
	if len(stats.Claims) == 0 {
		lines = append(lines, s.empty.Render("No conversations are claimed."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, load := range operatorLoads(stats.Claims) {
		lines = append(lines, s.section.Render(renderOperator(load, len(stats.Claims), opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

type operatorLoad struct {
	id     domain.OperatorID
	name   string
	claims []domain.Claim
}

func operatorLoads(claims []domain.Claim) []operatorLoad {
	byOperator := map[domain.OperatorID]*operatorLoad{}
	for _, claim := range claims {
		load, ok := byOperator[claim.OperatorID]
		if !ok {
			load = &operatorLoad{id: claim.OperatorID, name: claim.OperatorName}
			byOperator[claim.OperatorID] = load
		}
		load.claims = append(load.claims, claim)
	}

	out := make([]operatorLoad, 0, len(byOperator))
	for _, load := range byOperator {
		out = append(out, *load)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].claims) != len(out[j].claims) {
			return len(out[i].claims) > len(out[j].claims)
		}
		return out[i].id < out[j].id
	})

	return out
}

func renderOperator(load operatorLoad, total int, opts RenderOptions, s styles) string {
	share := 100 * float64(len(load.claims)) / float64(total)
	title := lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.operator.Render(operatorTitle(load)),
		" ",
		renderProgressBar(share, barWidth, s),
		" ",
		s.meta.Render(fmt.Sprintf("%d of %d", len(load.claims), total)),
	)

	parts := []string{title}
	for _, claim := range load.claims {
		parts = append(parts, claimLine(claim, opts, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func operatorTitle(load operatorLoad) string {
	name := strings.TrimSpace(load.name)
	if name == "" || name == string(load.id) {
		return string(load.id)
	}
	return fmt.Sprintf("%s (%s)", name, load.id)
}

func claimLine(claim domain.Claim, opts RenderOptions, s styles) string {
	age := lipgloss.NewStyle().Foreground(ageColor(claim.ClaimedAt, opts.Now, opts.StaleAfter))
	line := s.detail.Render("  "+string(claim.RequesterID)) + " " + age.Render(formatClaimed(claim.ClaimedAt, opts.Now))

	if opts.StaleAfter > 0 && !opts.Now.IsZero() && opts.Now.Sub(claim.ClaimedAt) > opts.StaleAfter {
		line += " " + s.warning.Render("[stale]")
	}

	return line
}

func renderProgressBar(percent float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	filled := int(math.Round(float64(width) * clampPercent(percent) / 100))
	filled = min(max(filled, 0), width)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func formatClaimed(claimedAt, now time.Time) string {
	if claimedAt.IsZero() {
		return "(claimed at unknown time)"
	}
	if now.IsZero() {
		return "(claimed " + claimedAt.Format(time.RFC3339) + ")"
	}
	return fmt.Sprintf("(claimed %s ago)", humanDuration(now.Sub(claimedAt)))
}

func uptime(startedAt, now time.Time) string {
	if startedAt.IsZero() || now.IsZero() || now.Before(startedAt) {
		return ""
	}
	return humanDuration(now.Sub(startedAt))
}

func humanDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "under a minute"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour")
	default:
		return plural(int(d.Hours()/24), "day")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// ageColor brightens a claim as it approaches staleAfter.
func ageColor(claimedAt, now time.Time, staleAfter time.Duration) lipgloss.Color {
	if now.IsZero() || claimedAt.IsZero() || staleAfter <= 0 {
		return lipgloss.Color("252")
	}
	return interpolateColor(now.Sub(claimedAt).Seconds(), 0, staleAfter.Seconds())
}

func interpolateColor(value, lo, hi float64) lipgloss.Color {
	if hi == lo {
		return lipgloss.Color("255")
	}

	normalized := (value - lo) / (hi - lo)
	normalized = min(max(normalized, 0), 1)

	// ANSI 256 greyscale ramp, 240 faded to 255 bright.
	code := int(240 + 15*normalized)
	return lipgloss.Color(fmt.Sprintf("%d", code))
}
