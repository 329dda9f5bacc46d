package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pbaille/liftlog/internal/api"
	"github.com/pbaille/liftlog/internal/calendar"
	"github.com/pbaille/liftlog/internal/config"
	"github.com/pbaille/liftlog/internal/domain"
	"github.com/pbaille/liftlog/internal/htmlview"
	"github.com/pbaille/liftlog/internal/store"
	"github.com/pbaille/liftlog/internal/termview"
)

var (
	cfg    config.Config
	dbPath string
	logger *slog.Logger
)

func main() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger = config.NewLogger(cfg.LogLevel, os.Stderr)
	slog.SetDefault(logger)

	rootCmd := &cobra.Command{
		Use:   "liftlog",
		Short: "Log workouts and browse them on a calendar",
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", cfg.DBPath, "database path")

	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(editCmd())
	rootCmd.AddCommand(deleteCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(typesCmd())
	rootCmd.AddCommand(calendarCmd())
	rootCmd.AddCommand(exportHTMLCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openStore opens the slot database and loads the exercise collection
func openStore() (*store.ExerciseStore, io.Closer, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("create db dir: %w", err)
	}

	slots, err := store.OpenSlots(dbPath)
	if err != nil {
		return nil, nil, err
	}

	s := store.NewExerciseStore(slots, store.WithLogger(logger))
	s.Load()
	return s, slots, nil
}

// fieldFlags binds the editable exercise fields to a command
type fieldFlags struct {
	typ    string
	weight float64
	reps   int
	sets   int
	notes  string
	date   string
}

func (f *fieldFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.typ, "type", "t", "", "exercise type")
	cmd.Flags().Float64VarP(&f.weight, "weight", "w", 0, "weight in kgs")
	cmd.Flags().IntVarP(&f.reps, "reps", "r", 0, "reps per set")
	cmd.Flags().IntVarP(&f.sets, "sets", "s", 0, "number of sets")
	cmd.Flags().StringVarP(&f.notes, "notes", "n", "", "free-form notes")
	cmd.Flags().StringVarP(&f.date, "date", "d", "", "date as YYYY-MM-DD (default today)")
}

// apply overlays the flags the user actually set onto base
func (f *fieldFlags) apply(cmd *cobra.Command, base domain.ExerciseFields) (domain.ExerciseFields, error) {
	flags := cmd.Flags()
	if flags.Changed("type") {
		base.Type = f.typ
	}
	if flags.Changed("weight") {
		base.Weight = f.weight
	}
	if flags.Changed("reps") {
		base.Reps = f.reps
	}
	if flags.Changed("sets") {
		base.Sets = f.sets
	}
	if flags.Changed("notes") {
		base.Notes = f.notes
	}
	if flags.Changed("date") {
		d, err := domain.ParseDate(f.date)
		if err != nil {
			return base, err
		}
		base.Date = d
	}
	return base, nil
}

func addCmd() *cobra.Command {
	var ff fieldFlags

	cmd := &cobra.Command{
		Use:   "add [type]",
		Short: "Log a new exercise",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := ff.apply(cmd, domain.ExerciseFields{Date: domain.Today()})
			if err != nil {
				return err
			}
			if len(args) > 0 {
				fields.Type = strings.Join(args, " ")
			}

			s, closer, err := openStore()
			if err != nil {
				return err
			}
			defer closer.Close()

			exercise, err := s.Add(fields)
			if err != nil {
				return err
			}

			fmt.Printf("Exercise logged successfully! (id %d)\n", exercise.ID)
			fmt.Printf("%s  %s: %s kgs, %d sets, %d reps\n",
				exercise.Date, exercise.Type, htmlview.FormatWeight(exercise.Weight), exercise.Sets, exercise.Reps)
			return nil
		},
	}

	ff.register(cmd)
	return cmd
}

func editCmd() *cobra.Command {
	var ff fieldFlags

	cmd := &cobra.Command{
		Use:   "edit [id]",
		Short: "Edit a logged exercise",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			s, closer, err := openStore()
			if err != nil {
				return err
			}
			defer closer.Close()

			current, err := s.Get(id)
			if err != nil {
				return err
			}

			fields, err := ff.apply(cmd, current.Fields())
			if err != nil {
				return err
			}

			updated, err := s.Update(id, fields)
			if err != nil {
				return err
			}

			fmt.Println("Exercise updated successfully!")
			fmt.Print(termview.Day(updated.Date, s.ByDate(updated.Date)))
			return nil
		},
	}

	ff.register(cmd)
	return cmd
}

func deleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a logged exercise",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			s, closer, err := openStore()
			if err != nil {
				return err
			}
			defer closer.Close()

			exercise, err := s.Get(id)
			if err != nil {
				fmt.Printf("No exercise with id %d, nothing to delete.\n", id)
				return nil
			}

			if !yes {
				ok, err := confirm(os.Stdin, os.Stdout, "Are you sure you want to delete this exercise?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println("Cancelled.")
					return nil
				}
			}

			if err := s.Delete(id); err != nil {
				return err
			}

			fmt.Printf("Deleted %s on %s.\n", exercise.Type, exercise.Date)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [date]",
		Short: "Show exercises logged on a date (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day := domain.Today()
			if len(args) == 1 {
				d, err := domain.ParseDate(args[0])
				if err != nil {
					return err
				}
				day = d
			}

			s, closer, err := openStore()
			if err != nil {
				return err
			}
			defer closer.Close()

			fmt.Print(termview.Day(day, s.ByDate(day)))
			return nil
		},
	}
}

func typesCmd() *cobra.Command {
	var complete string

	cmd := &cobra.Command{
		Use:   "types [query]",
		Short: "List known exercise types",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closer, err := openStore()
			if err != nil {
				return err
			}
			defer closer.Close()

			if cmd.Flags().Changed("complete") {
				if candidate, ok := s.CompleteType(complete); ok {
					fmt.Println(candidate)
				} else {
					fmt.Println(complete)
				}
				return nil
			}

			var types []string
			if len(args) == 1 {
				types = s.SuggestTypes(args[0])
			} else {
				types = s.AllTypes()
			}

			if len(types) == 0 {
				fmt.Println("No matching exercise types.")
				return nil
			}
			for _, t := range types {
				fmt.Println(t)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&complete, "complete", "", "print the completion of a type prefix")
	return cmd
}

// monthFlags select a calendar month; month is 1-12 on the command line
type monthFlags struct {
	year  int
	month int
	date  string
}

func (m *monthFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&m.year, "year", 0, "year (default current year)")
	cmd.Flags().IntVar(&m.month, "month", 0, "month 1-12 (default current or first available month)")
	cmd.Flags().StringVar(&m.date, "date", "", "also list exercises for this YYYY-MM-DD")
}

// resolve returns the navigation for the selection and the optional day
func (m *monthFlags) resolve(s *store.ExerciseStore) (calendar.Navigation, *domain.Date, error) {
	if m.month != 0 && !calendar.ValidMonth(m.month-1) {
		return calendar.Navigation{}, nil, fmt.Errorf("invalid month %d, expected 1-12", m.month)
	}

	var day *domain.Date
	year, month := m.year, m.month-1
	if m.date != "" {
		d, err := domain.ParseDate(m.date)
		if err != nil {
			return calendar.Navigation{}, nil, err
		}
		day = &d
		if year == 0 && month < 0 {
			year, month = d.Year, d.MonthIndex()
		}
	}

	var earliest *domain.Date
	if d, ok := s.EarliestDate(); ok {
		earliest = &d
	}
	return calendar.NewNavigation(year, month, earliest, domain.Today()), day, nil
}

func calendarCmd() *cobra.Command {
	var mf monthFlags

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show a month with logged days highlighted",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closer, err := openStore()
			if err != nil {
				return err
			}
			defer closer.Close()

			nav, day, err := mf.resolve(s)
			if err != nil {
				return err
			}

			view := calendar.NewMonthView(s.All(), nav.SelectedYear, nav.SelectedMonth)
			fmt.Println(termview.Month(view))
			fmt.Printf("Years: %s\n", joinInts(nav.Years))
			fmt.Printf("Months: %s\n", monthNames(nav.Months))

			if day != nil {
				fmt.Print(termview.Day(*day, s.ByDate(*day)))
			}
			return nil
		},
	}

	mf.register(cmd)
	return cmd
}

func exportHTMLCmd() *cobra.Command {
	var mf monthFlags
	var out string

	cmd := &cobra.Command{
		Use:   "export-html",
		Short: "Write a month as a standalone HTML page",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closer, err := openStore()
			if err != nil {
				return err
			}
			defer closer.Close()

			nav, day, err := mf.resolve(s)
			if err != nil {
				return err
			}

			page := htmlview.Page{
				Nav:  nav,
				View: calendar.NewMonthView(s.All(), nav.SelectedYear, nav.SelectedMonth),
				Day:  day,
			}
			if day != nil {
				page.Items = s.ByDate(*day)
			}

			var w io.Writer = os.Stdout
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}

			if err := htmlview.Render(w, page); err != nil {
				return err
			}
			if out != "" {
				fmt.Printf("Wrote %s\n", out)
			}
			return nil
		},
	}

	mf.register(cmd)
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	return cmd
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the local HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openStore()
			if err != nil {
				return err
			}
			// Note: don't close the store as server runs indefinitely

			server := api.New(s, addr, logger)
			return server.Run()
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", cfg.Addr, "server address")
	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " ")
}

func monthNames(months []int) string {
	parts := make([]string, len(months))
	for i, m := range months {
		parts[i] = calendar.MonthName(m)
	}
	return strings.Join(parts, " ")
}
