package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/evcraddock/visitor-pass/internal/request"
	"github.com/evcraddock/visitor-pass/internal/user"
)

// printJSON marshals v as indented JSON and writes it to w.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printRequest prints a single request in text format.
func printRequest(w io.Writer, r *request.VisitorRequest) {
	fmt.Fprintf(w, "Request %s\n", r.ID)
	fmt.Fprintf(w, "  Requested by:  %s\n", r.RequestedBy)
	fmt.Fprintf(w, "  Visitor:       %s\n", r.VisitorName)
	fmt.Fprintf(w, "  Contact:       %s\n", r.Contact)
	fmt.Fprintf(w, "  Visit date:    %s\n", r.VisitDate)
	fmt.Fprintf(w, "  Purpose:       %s\n", r.Purpose)
	fmt.Fprintf(w, "  Status:        %s\n", r.Status)
	if r.AdminComment != "" {
		fmt.Fprintf(w, "  Admin comment: %s\n", r.AdminComment)
	}
	fmt.Fprintf(w, "  Submitted:     %s\n", r.Timestamp)
}

// printRequestTable prints a list of requests as a formatted table.
func printRequestTable(out io.Writer, reqs []*request.VisitorRequest) error {
	if len(reqs) == 0 {
		fmt.Fprintln(out, "No requests found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tREQUESTED BY\tVISITOR\tVISIT DATE\tSTATUS\tSUBMITTED"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(w, "--\t------------\t-------\t----------\t------\t---------"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	for _, r := range reqs {
		id := r.ID
		if id == "" {
			id = "-"
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			id, r.RequestedBy, truncate(r.VisitorName, 30), r.VisitDate, r.Status, r.Timestamp); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	fmt.Fprintf(out, "\nTotal: %d requests\n", len(reqs))
	return nil
}

// printUserTable prints users without their passwords.
func printUserTable(out io.Writer, users []*user.User) error {
	if len(users) == 0 {
		fmt.Fprintln(out, "No users found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "USERNAME\tROLE"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	for _, u := range users {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", u.Username, u.Role); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}
	return w.Flush()
}

// truncate shortens a string to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
