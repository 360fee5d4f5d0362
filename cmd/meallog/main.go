package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"meallog/internal/amqp"
	"meallog/internal/api"
	"meallog/internal/cache"
	"meallog/internal/cli"
	"meallog/internal/config"
	"meallog/internal/core"
	"meallog/internal/report"
	"meallog/internal/services"
	"meallog/internal/viewstate"
)

const usage = `Usage: meallog <command> [flags]

Commands:
  signup   create an account and log in
  login    log in and store the session token
  logout   discard the stored session token
  day      show one day's meals grouped by kind
  add      log a meal
  edit     change a logged meal
  rm       delete a logged meal
  week     show aggregated totals for a date range
`

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := cli.LoadAndValidateConfig(logger)
	sess := cli.OpenSession(logger, cfg.SessionDBPath)
	defer sess.Close()

	app := &app{
		cfg:    cfg,
		client: api.New(cfg.APIBaseURL, sess, api.WithTimeout(cfg.HTTPTimeout)),
	}

	ctx := context.Background()
	if err := app.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

type app struct {
	cfg    *config.Config
	client *api.Client
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "signup":
		return a.signup(ctx, args)
	case "login":
		return a.login(ctx, args)
	case "logout":
		a.client.Logout(ctx)
		fmt.Println("Logged out.")
		return nil
	case "day":
		return a.day(ctx, args)
	case "add":
		return a.add(ctx, args)
	case "edit":
		return a.edit(ctx, args)
	case "rm":
		return a.remove(ctx, args)
	case "week":
		return a.week(ctx, args)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

// service builds the mutation service, attaching the AMQP publisher
// when a broker is configured. Publisher failures only disable events.
func (a *app) service(ctx context.Context) (*services.MealService, func()) {
	if a.cfg.AMQPURL == "" {
		return services.NewMealService(a.client, nil), func() {}
	}
	broker, err := amqp.NewClient(a.cfg.AMQPURL, a.cfg.AMQPExchange, a.cfg.AMQPQueue)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Warning: change events disabled:", err)
		return services.NewMealService(a.client, nil), func() {}
	}
	return services.NewMealService(a.client, broker), func() { broker.Close() }
}

func (a *app) signup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	email := fs.String("email", "", "account email (required)")
	nickname := fs.String("nickname", "", "display name")
	password := fs.String("password", "", "account password (required)")
	fs.Parse(args)

	if *email == "" || *password == "" {
		return errors.New("signup requires -email and -password")
	}

	err := a.client.Signup(ctx, api.SignupParams{
		Email:                *email,
		Nickname:             *nickname,
		Password:             *password,
		PasswordConfirmation: *password,
	})
	if err != nil {
		return err
	}

	// The API issues tokens only on login, so follow up immediately.
	res, err := a.client.Login(ctx, *email, *password)
	if err != nil {
		return fmt.Errorf("account created but login failed: %w", err)
	}
	fmt.Printf("Welcome, %s.\n", accountName(res))
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email (required)")
	password := fs.String("password", "", "account password (required)")
	fs.Parse(args)

	if *email == "" || *password == "" {
		return errors.New("login requires -email and -password")
	}

	res, err := a.client.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s.\n", accountName(res))
	return nil
}

func accountName(res api.LoginResult) string {
	if res.User == nil {
		return "you"
	}
	if res.User.Nickname != nil && *res.User.Nickname != "" {
		return *res.User.Nickname
	}
	return res.User.Email
}

func (a *app) day(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("day", flag.ExitOnError)
	date := fs.String("date", core.Today(), "day to show (YYYY-MM-DD)")
	fs.Parse(args)

	if !core.ValidDate(*date) {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", *date)
	}

	view := viewstate.NewDayView(a.client, cache.New[[]core.Meal](a.cfg.DayCacheSize, a.cfg.DayCacheTTL))
	if err := view.SetDate(ctx, *date); err != nil {
		return err
	}
	if msg := view.Err(); msg != "" {
		return errors.New(msg)
	}

	printDay(*date, view.Summary())
	return nil
}

func printDay(date string, s core.DaySummary) {
	fmt.Println(date)
	for _, g := range s.Groups {
		if len(g.Items) == 0 {
			continue
		}
		fmt.Printf("  %s (%d kcal)\n", g.Kind.Label(), g.TotalKcal)
		for _, m := range g.Items {
			fmt.Printf("    #%-4d %-24s %s\n", m.ID, m.Name, mealDetails(m))
		}
	}
	fmt.Printf("  Total: %d kcal\n", s.TotalKcal)
}

func mealDetails(m core.Meal) string {
	var parts []string
	if m.AmountGrams != nil {
		parts = append(parts, fmt.Sprintf("%dg", *m.AmountGrams))
	}
	if m.CaloriesKcal != nil {
		parts = append(parts, fmt.Sprintf("%d kcal", *m.CaloriesKcal))
	}
	if m.Notes != nil && *m.Notes != "" {
		parts = append(parts, *m.Notes)
	}
	return strings.Join(parts, ", ")
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	date := fs.String("date", core.Today(), "day the meal was eaten (YYYY-MM-DD)")
	kind := fs.String("kind", string(core.Snack), "breakfast, lunch, dinner or snack")
	name := fs.String("name", "", "what was eaten (required)")
	grams := fs.Int("grams", -1, "amount in grams")
	kcal := fs.Int("kcal", -1, "calories")
	notes := fs.String("notes", "", "free-form notes")
	fs.Parse(args)

	if *name == "" {
		return errors.New("add requires -name")
	}

	meal := core.Meal{
		EatenOn:      *date,
		Kind:         core.NormalizeKind(core.Kind(*kind)),
		Name:         *name,
		AmountGrams:  optionalFlag(*grams),
		CaloriesKcal: optionalFlag(*kcal),
	}
	if *notes != "" {
		meal.Notes = notes
	}

	svc, closeBroker := a.service(ctx)
	defer closeBroker()

	created, err := svc.Create(ctx, meal)
	if err != nil {
		return err
	}
	fmt.Printf("Logged #%d: %s on %s.\n", created.ID, created.Name, created.EatenOn)
	return nil
}

// optionalFlag maps the -1 "not set" sentinel to an absent value.
func optionalFlag(v int) *int {
	if v < 0 {
		return nil
	}
	return &v
}

func (a *app) edit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	id := fs.Int64("id", 0, "meal id to edit (required)")
	date := fs.String("date", core.Today(), "day the meal is logged on (YYYY-MM-DD)")
	kind := fs.String("kind", "", "new kind")
	name := fs.String("name", "", "new name")
	grams := fs.Int("grams", -1, "new amount in grams")
	kcal := fs.Int("kcal", -1, "new calories")
	notes := fs.String("notes", "", "new notes")
	fs.Parse(args)

	if *id == 0 {
		return errors.New("edit requires -id")
	}

	meals, err := a.client.MealsOn(ctx, *date)
	if err != nil {
		return err
	}
	var current *core.Meal
	for i := range meals {
		if meals[i].ID == *id {
			current = &meals[i]
			break
		}
	}
	if current == nil {
		return fmt.Errorf("no meal #%d on %s", *id, *date)
	}

	// Only flags the user actually set override the current record.
	draft := *current
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "kind":
			draft.Kind = core.NormalizeKind(core.Kind(*kind))
		case "name":
			draft.Name = *name
		case "grams":
			draft.AmountGrams = optionalFlag(*grams)
		case "kcal":
			draft.CaloriesKcal = optionalFlag(*kcal)
		case "notes":
			draft.Notes = notes
		}
	})

	svc, closeBroker := a.service(ctx)
	defer closeBroker()

	updated, err := svc.Update(ctx, draft)
	if err != nil {
		return err
	}
	fmt.Printf("Updated #%d: %s.\n", updated.ID, updated.Name)
	return nil
}

func (a *app) remove(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("rm", flag.ExitOnError)
	id := fs.Int64("id", 0, "meal id to delete (required)")
	date := fs.String("date", core.Today(), "day the meal is logged on (YYYY-MM-DD)")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	fs.Parse(args)

	if *id == 0 {
		return errors.New("rm requires -id")
	}

	if !*yes && !confirm(fmt.Sprintf("Delete meal #%d on %s?", *id, *date)) {
		fmt.Println("Cancelled.")
		return nil
	}

	svc, closeBroker := a.service(ctx)
	defer closeBroker()

	if err := svc.Delete(ctx, *id, *date); err != nil {
		return err
	}
	fmt.Printf("Deleted #%d.\n", *id)
	return nil
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func (a *app) week(ctx context.Context, args []string) error {
	today := core.Today()
	defaultFrom := time.Now().AddDate(0, 0, -6).Format(core.DateLayout)

	fs := flag.NewFlagSet("week", flag.ExitOnError)
	from := fs.String("from", defaultFrom, "first day (YYYY-MM-DD)")
	to := fs.String("to", today, "last day (YYYY-MM-DD)")
	fs.Parse(args)

	days, err := report.Range(ctx, a.client, *from, *to)
	if err != nil {
		return err
	}

	for _, d := range days {
		fmt.Printf("%s  %5d kcal", d.Date, d.Summary.TotalKcal)
		var parts []string
		for _, kind := range core.KindOrder {
			if g := d.Summary.Group(kind); g.TotalKcal > 0 {
				parts = append(parts, fmt.Sprintf("%s %d", g.Kind.Label(), g.TotalKcal))
			}
		}
		if len(parts) > 0 {
			fmt.Printf("  (%s)", strings.Join(parts, ", "))
		}
		fmt.Println()
	}
	fmt.Printf("Total: %d kcal over %d days\n", report.Total(days), len(days))
	return nil
}
