package report

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/abhisek/quizlens/internal/llm"
	"github.com/abhisek/quizlens/internal/store"
	"github.com/abhisek/quizlens/internal/ui/theme"
)

const eventTimeLayout = "2006-01-02 15:04:05"

// usageTable builds a bordered table; failed(row) paints a row red.
func usageTable(headers []string, rows [][]string, failed func(row int) bool) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return base.Inherit(theme.Label)
			case failed != nil && row >= 0 && failed(row):
				return base.Foreground(theme.Error)
			default:
				return base.Foreground(theme.Text)
			}
		})
}

// LLMEvents lists suggestion requests, newest first, failures in red.
func (r *Renderer) LLMEvents(events []store.LLMRequestEvent) {
	if len(events) == 0 {
		r.println(theme.Hint.Render("No LLM requests recorded yet."))
		return
	}
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		status := "ok"
		if !e.Success {
			status = "failed"
		}
		rows = append(rows, []string{
			strconv.Itoa(e.ID),
			e.Timestamp.Local().Format(eventTimeLayout),
			e.Purpose,
			e.Provider + "/" + e.Model,
			fmt.Sprintf("%d/%d", e.InputTokens, e.OutputTokens),
			fmt.Sprintf("%dms", e.LatencyMs),
			formatUSD(e.CostUSD),
			status,
		})
	}
	t := usageTable([]string{"ID", "Time", "Purpose", "Model", "Tokens in/out", "Latency", "Cost", "Status"},
		rows, func(row int) bool { return row < len(events) && !events[row].Success })
	r.println(t.String())
}

// LLMEvent writes one request with its prompt and answer.
func (r *Renderer) LLMEvent(e store.LLMRequestEvent) {
	prof := llm.ProfileFor(llm.Purpose(e.Purpose))
	fields := [][2]string{
		{"Request", strconv.Itoa(e.ID)},
		{"Time", e.Timestamp.Local().Format(eventTimeLayout)},
		{"Purpose", fmt.Sprintf("%s (cap %d tokens, %d attempt(s))", e.Purpose, prof.MaxTokens, prof.MaxAttempts)},
		{"Model", e.Provider + "/" + e.Model},
		{"Tokens", fmt.Sprintf("%d in / %d out", e.InputTokens, e.OutputTokens)},
		{"Latency", fmt.Sprintf("%dms", e.LatencyMs)},
		{"Cost", formatUSD(e.CostUSD)},
	}
	if !e.Success {
		fields = append(fields, [2]string{"Error", theme.Weak.Render(e.ErrorMessage)})
	}
	for _, f := range fields {
		r.printf("%s %s\n", theme.Label.Render(fmt.Sprintf("%-8s", f[0]+":")), f[1])
	}
	r.eventBody("Prompt", e.RequestBody)
	r.eventBody("Answer", e.ResponseBody)
}

func (r *Renderer) eventBody(title, body string) {
	r.println()
	r.println(theme.Title.Render(center(" "+title+" ", RuleWidth, '─')))
	if strings.TrimSpace(body) == "" {
		r.println(theme.Hint.Render("(not captured)"))
		return
	}
	r.println(strings.TrimRight(body, "\n"))
}

// LLMUsage writes token use per purpose and estimated cost per model.
// Models with no stored cost are priced from the built-in table; models
// missing from both are listed as unpriced.
func (r *Renderer) LLMUsage(byPurpose, byModel []store.LLMUsage) {
	if len(byPurpose) == 0 {
		r.println(theme.Hint.Render("No LLM usage recorded yet."))
		return
	}

	r.println(theme.Title.Render("Usage by purpose"))
	rows := make([][]string, 0, len(byPurpose)+1)
	var calls, failures, in, out int
	for _, u := range byPurpose {
		prof := llm.ProfileFor(llm.Purpose(u.Purpose))
		rows = append(rows, []string{
			u.Purpose,
			strconv.Itoa(u.Calls),
			strconv.Itoa(u.Failures),
			strconv.Itoa(u.InputTokens),
			strconv.Itoa(u.OutputTokens),
			fmt.Sprintf("%dms", u.AvgLatencyMs),
			fmt.Sprintf("%d tok × %d", prof.MaxTokens, prof.MaxAttempts),
		})
		calls += u.Calls
		failures += u.Failures
		in += u.InputTokens
		out += u.OutputTokens
	}
	rows = append(rows, []string{"total", strconv.Itoa(calls), strconv.Itoa(failures), strconv.Itoa(in), strconv.Itoa(out), "", ""})
	r.println(usageTable([]string{"Purpose", "Calls", "Failed", "In", "Out", "Avg latency", "Budget"}, rows,
		func(row int) bool { return row < len(byPurpose) && byPurpose[row].Failures == byPurpose[row].Calls }).String())

	if len(byModel) == 0 {
		return
	}
	r.println()
	r.println(theme.Title.Render("Estimated cost (USD)"))
	rows = rows[:0]
	var total float64
	var unpriced []string
	for _, u := range byModel {
		cost, ok := modelCost(u)
		shown := "?"
		if ok {
			total += cost
			shown = formatUSD(cost)
		} else {
			unpriced = append(unpriced, u.Model)
		}
		rows = append(rows, []string{u.Model, strconv.Itoa(u.Calls), strconv.Itoa(u.InputTokens), strconv.Itoa(u.OutputTokens), shown})
	}
	label := "total"
	if len(unpriced) > 0 {
		label = "total (partial)"
	}
	rows = append(rows, []string{label, "", "", "", formatUSD(total)})
	r.println(usageTable([]string{"Model", "Calls", "In", "Out", "Cost"}, rows, nil).String())
	if len(unpriced) > 0 {
		r.println(theme.Hint.Render("No pricing for: " + strings.Join(unpriced, ", ")))
	}
}

func modelCost(u store.LLMUsage) (float64, bool) {
	if u.CostUSD > 0 {
		return u.CostUSD, true
	}
	if c := llm.LookupCost(u.Model); c != nil {
		return c.Cost(u.InputTokens, u.OutputTokens), true
	}
	return 0, false
}

func formatUSD(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}
