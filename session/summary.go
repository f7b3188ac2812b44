package session

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/kendall-kelly/garment-crm/models"
	"github.com/kendall-kelly/garment-crm/services"
	"github.com/kendall-kelly/garment-crm/views"
)

// SummaryResult is what the summary panel shows: the text, or an inline error
type SummaryResult struct {
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// BuildSummaryPrompt describes an order's production status for the summary model
func BuildSummaryPrompt(o models.Order, factoryName string, today models.Date) string {
	dash := views.BuildDashboard(o.Tasks, o.Products, "", today)

	var b strings.Builder
	fmt.Fprintf(&b, "Summarize the production status of garment order %s for %s.\n", o.ID, o.Customer)
	fmt.Fprintf(&b, "Today is %s. Order status: %s.\n", today, o.Status)
	if factoryName != "" {
		fmt.Fprintf(&b, "Factory: %s.\n", factoryName)
	}
	if o.DestinationCountry != "" {
		fmt.Fprintf(&b, "Destination: %s.\n", o.DestinationCountry)
	}

	b.WriteString("Products:\n")
	for _, p := range o.Products {
		qty := "unspecified quantity"
		if p.Quantity != nil {
			qty = fmt.Sprintf("%d pcs", *p.Quantity)
		}
		fmt.Fprintf(&b, "- %s (%s)\n", p.Name, qty)
	}

	fmt.Fprintf(&b, "Tasks: %d total, %d to do, %d in progress, %d complete (%d%% complete).\n",
		dash.Total, dash.ToDo, dash.InProgress, dash.Complete, dash.Completion)
	fmt.Fprintf(&b, "Overdue: %d. Due within %d days: %d.\n", dash.Overdue, models.DueSoonDays, dash.DueSoon)

	if len(dash.Upcoming) > 0 {
		b.WriteString("Upcoming deadlines:\n")
		for _, d := range dash.Upcoming {
			owner := ""
			if d.Responsible != "" {
				owner = ", " + d.Responsible
			}
			fmt.Fprintf(&b, "- %s (due %s%s)\n", d.Name, d.PlannedEndDate, owner)
		}
	}
	b.WriteString("Highlight risks and recommend next actions in at most five sentences.")
	return b.String()
}

// Summarize asks the summary service about o. Failures degrade to an inline
// error message and a notification.
func Summarize(ctx context.Context, svc services.SummaryService, sink NotificationSink, o models.Order, factoryName string, today models.Date) SummaryResult {
	if svc == nil {
		notify(sink, LevelError, "AI summary is not available.")
		return SummaryResult{Error: "AI summary is not available."}
	}
	text, err := svc.GenerateSummary(ctx, BuildSummaryPrompt(o, factoryName, today))
	if err != nil {
		log.Printf("[SUMMARY] order %s: %v", o.ID, err)
		notify(sink, LevelError, "Failed to generate AI summary.")
		return SummaryResult{Error: "Could not generate a summary right now. Please try again later."}
	}
	return SummaryResult{Text: strings.TrimSpace(text)}
}
