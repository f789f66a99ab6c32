package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/meinhoongagan/medcare/client"
	"github.com/meinhoongagan/medcare/config"
	"github.com/meinhoongagan/medcare/models"
	"github.com/meinhoongagan/medcare/scheduling"
)

const defaultAPI = "http://localhost:8000"

func addClientFlags(cmd *cobra.Command) {
	api := os.Getenv("MEDCARE_API")
	if api == "" {
		api = defaultAPI
	}
	cmd.Flags().String("api", api, "API base URL (env MEDCARE_API)")
	cmd.Flags().String("session", "", "session file (default ~/.medcare/session.json)")
}

func newClient(cmd *cobra.Command) (*client.Client, error) {
	api, _ := cmd.Flags().GetString("api")
	path, _ := cmd.Flags().GetString("session")
	if path == "" {
		var err error
		if path, err = client.DefaultSessionPath(); err != nil {
			return nil, err
		}
	}
	return client.New(api, client.NewFileSessionStore(path)), nil
}

func loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the session for later commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")
			if password == "" {
				password = os.Getenv("MEDCARE_PASSWORD")
			}
			if username == "" || password == "" {
				return errors.New("--username and --password (or MEDCARE_PASSWORD) are required")
			}

			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			s, err := c.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", s.User.Username, s.User.Role)
			return nil
		},
	}
	addClientFlags(cmd)
	cmd.Flags().StringP("username", "u", "", "username")
	cmd.Flags().StringP("password", "p", "", "password (env MEDCARE_PASSWORD)")
	return cmd
}

func logoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Revoke the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			if err := c.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
	addClientFlags(cmd)
	return cmd
}

func bookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "book",
		Short:   "Book an appointment after checking the slot against current bookings",
		Example: "  medcare book --patient \"Ana Pop\" --doctor 1 --service 4 --date 2025-03-12 --time 10:30",
		RunE: func(cmd *cobra.Command, args []string) error {
			patient, _ := cmd.Flags().GetString("patient")
			doctorID, _ := cmd.Flags().GetUint("doctor")
			serviceID, _ := cmd.Flags().GetUint("service")
			date, _ := cmd.Flags().GetString("date")
			at, _ := cmd.Flags().GetString("time")
			tz, _ := cmd.Flags().GetString("timezone")

			loc, err := bookingLocation(tz)
			if err != nil {
				return err
			}
			if date == "" {
				date = time.Now().In(loc).Format("2006-01-02")
			}

			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			appointment, err := client.NewBooker(c, loc).Book(cmd.Context(), client.BookRequest{
				PatientName: patient,
				DoctorID:    doctorID,
				ServiceID:   serviceID,
				Date:        date,
				Time:        at,
			})
			if errors.Is(err, client.ErrSlotTaken) {
				return fmt.Errorf("%w; list the day's appointments and pick another time", err)
			}
			if err != nil {
				return err
			}
			printAppointment(cmd, appointment, loc)
			return nil
		},
	}
	addClientFlags(cmd)
	cmd.Flags().String("patient", "", "patient name")
	cmd.Flags().Uint("doctor", 0, "doctor id")
	cmd.Flags().Uint("service", 0, "medical service id")
	cmd.Flags().String("date", "", "date YYYY-MM-DD (default today)")
	cmd.Flags().String("time", "", "start time HH:MM")
	cmd.Flags().String("timezone", os.Getenv("CLINIC_TIMEZONE"), "clinic time zone (env CLINIC_TIMEZONE, default local)")
	_ = cmd.MarkFlagRequired("patient")
	_ = cmd.MarkFlagRequired("doctor")
	_ = cmd.MarkFlagRequired("service")
	_ = cmd.MarkFlagRequired("time")
	return cmd
}

// bookingLocation resolves the zone the server reads appointment times in,
// using the same rules as the server's CLINIC_TIMEZONE setting.
func bookingLocation(tz string) (*time.Location, error) {
	loc, err := (&config.Config{ClinicTimezone: tz}).Location()
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	return loc, nil
}

func printAppointment(cmd *cobra.Command, a *models.Appointment, loc *time.Location) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Booked appointment #%d\n", a.ID)
	fmt.Fprintf(out, "  patient: %s\n", a.PatientName)
	if a.Doctor.Name != "" {
		fmt.Fprintf(out, "  doctor:  %s\n", a.Doctor.Name)
	}
	if a.Service.Name != "" {
		fmt.Fprintf(out, "  service: %s (%s)\n", a.Service.Name, scheduling.FormatMinutesForDisplay(a.Service.Duration.Minutes()))
	}
	if !a.AppointmentTime.IsZero() {
		fmt.Fprintf(out, "  time:    %s\n", a.AppointmentTime.In(loc).Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(out, "  status:  %s\n", a.Status)
}
