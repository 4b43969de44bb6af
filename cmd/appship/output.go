package main

import (
	"encoding/json"
	"fmt"
	"io"

	"appship/internal/app"
)

func writeJSON(w io.Writer, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printStatus(w io.Writer, status app.Status, jsonOutput bool) error {
	if jsonOutput {
		return writeJSON(w, status)
	}
	if !status.LoggedIn {
		fmt.Fprintln(w, "\n  Not logged in.")
		fmt.Fprintln(w, "  Run 'appship login' to authenticate.")
		fmt.Fprintln(w)
		return nil
	}
	if !status.Verified {
		fmt.Fprintf(w, "\n  Logged in as: %s\n", status.Email)
		fmt.Fprintf(w, "  Source: %s\n", status.Source)
		fmt.Fprintln(w, "  (Could not fetch account details)")
		fmt.Fprintln(w)
		return nil
	}
	apple := "Not connected"
	if status.HasAppleCredentials != nil && *status.HasAppleCredentials {
		apple = "Connected"
	}
	credits := 0
	if status.Credits != nil {
		credits = *status.Credits
	}
	fmt.Fprintln(w, "\n  Appship Account")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Email:   %s\n", status.Email)
	fmt.Fprintf(w, "  Credits: %d\n", credits)
	fmt.Fprintf(w, "  Apple:   %s\n", apple)
	fmt.Fprintf(w, "  Source:  %s\n", status.Source)
	fmt.Fprintln(w)
	return nil
}
