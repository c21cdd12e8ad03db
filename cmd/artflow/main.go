// ABOUTME: Entry point for the artflow marketplace CLI
// ABOUTME: Manages accounts, artwork listings, and orders against a local database

package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/artflow/artflow/internal/catalog"
	"github.com/artflow/artflow/internal/config"
	"github.com/artflow/artflow/internal/imageref"
	"github.com/artflow/artflow/internal/seed"
	"github.com/artflow/artflow/internal/session"
	"github.com/artflow/artflow/internal/store"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
            _    __ _
  __ _ _ __| |_ / _| | _____      __
 / _' | '__| __| |_| |/ _ \ \ /\ / /
| (_| | |  | |_|  _| | (_) \ V  V /
 \__,_|_|   \__|_| |_|\___/ \_/\_/
`

// getConfigPath returns the path to the artflow config file.
// Priority: ARTFLOW_CONFIG env var > XDG_CONFIG_HOME/artflow/artflow.yaml > ~/.config/artflow/artflow.yaml
func getConfigPath() string {
	if envPath := os.Getenv("ARTFLOW_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "artflow.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "artflow", "artflow.yaml")
}

// loadConfig loads the config file, falling back to defaults when the file
// does not exist. Any other failure is reported.
func loadConfig() (*config.Config, error) {
	path := getConfigPath()
	cfg, err := config.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config.Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: artflow <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  init                  Create a new config file interactively")
		fmt.Println("  signup                Register an artist or customer account")
		fmt.Println("  login                 Check credentials for an account")
		fmt.Println("  add                   List a new artwork")
		fmt.Println("  remove                Remove an artwork by id")
		fmt.Println("  list                  Show artworks, optionally by category")
		fmt.Println("  place                 Place an order for an artwork")
		fmt.Println("  orders                Show orders, optionally by artist or customer")
		fmt.Println("  accept                Accept a pending order")
		fmt.Println("  reject                Reject a pending order")
		fmt.Println("  profile               Show an account profile")
		fmt.Println("  seed                  Import demo data from a TOML fixture")
		fmt.Println("  stats                 Show database row counts")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "init":
		err = runInit()
	case "signup":
		err = runSignup(ctx)
	case "login":
		err = runLogin(ctx)
	case "add":
		err = runAdd(ctx)
	case "remove":
		err = runRemove(ctx)
	case "list":
		err = runList(ctx)
	case "place":
		err = runPlace(ctx)
	case "orders":
		err = runOrders(ctx)
	case "accept":
		err = runTransition(ctx, "accept")
	case "reject":
		err = runTransition(ctx, "reject")
	case "profile":
		err = runProfile(ctx)
	case "seed":
		err = runSeed(ctx)
	case "stats":
		err = runStats(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openStore loads config, sets up logging, and opens the database. Every
// data command goes through here so they all share the same wiring.
func openStore() (*config.Config, store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	logger := setupLogger(cfg.Logging)
	slog.SetDefault(logger)

	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	return cfg, st, nil
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = &colorHandler{
			level: level,
		}
	}

	return slog.New(handler)
}

// colorHandler provides colorized log output with thread-safe writes.
type colorHandler struct {
	mu     sync.Mutex
	level  slog.Level
	attrs  []slog.Attr
	groups []string
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *colorHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var buf strings.Builder

	buf.WriteString(color.HiBlackString(r.Time.Format("15:04:05") + " "))

	switch r.Level {
	case slog.LevelDebug:
		buf.WriteString(color.MagentaString("DBG "))
	case slog.LevelInfo:
		buf.WriteString(color.CyanString("INF "))
	case slog.LevelWarn:
		buf.WriteString(color.YellowString("WRN "))
	case slog.LevelError:
		buf.WriteString(color.New(color.FgRed, color.Bold).Sprint("ERR "))
	default:
		buf.WriteString("??? ")
	}

	buf.WriteString(r.Message)

	// Handler-level attrs first (from WithAttrs), then record attrs
	for _, a := range h.attrs {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
	}
	r.Attrs(func(a slog.Attr) bool {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
		return true
	})

	buf.WriteString("\n")
	fmt.Print(buf.String())
	return nil
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	newAttrs = append(newAttrs, attrs...)
	return &colorHandler{
		level:  h.level,
		attrs:  newAttrs,
		groups: h.groups,
	}
}

func (h *colorHandler) WithGroup(name string) slog.Handler {
	newGroups := make([]string, len(h.groups), len(h.groups)+1)
	copy(newGroups, h.groups)
	newGroups = append(newGroups, name)
	return &colorHandler{
		level:  h.level,
		attrs:  h.attrs,
		groups: newGroups,
	}
}

func runSignup(ctx context.Context) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	first := fs.String("first", "", "First name")
	last := fs.String("last", "", "Last name")
	email := fs.String("email", "", "Email address")
	password := fs.String("password", "", "Password (min 6 characters)")
	role := fs.String("role", "customer", "Account role: artist or customer")
	fs.Parse(os.Args[2:])

	_, st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	account, err := st.CreateAccount(ctx, store.CreateAccountParams{
		FirstName: *first,
		LastName:  *last,
		Email:     *email,
		Password:  *password,
		Role:      store.Role(*role),
	})
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	green.Printf("  ✓ Created %s account: %s\n", account.Role, account.Email)
	fmt.Printf("  ID: %s\n", account.ID)
	return nil
}

func runLogin(ctx context.Context) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "Email address")
	password := fs.String("password", "", "Password")
	role := fs.String("role", "customer", "Account role: artist or customer")
	fs.Parse(os.Args[2:])

	_, st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	status, err := st.CheckCredentials(ctx, *email, *password, store.Role(*role))
	if err != nil {
		return err
	}

	switch status {
	case store.CredentialsOK:
		account, err := st.GetAccountByEmail(ctx, *email)
		if err != nil {
			return err
		}
		sess := session.New(slog.Default())
		sess.Login(session.Identity{
			AccountID: account.ID,
			FullName:  account.FullName,
			Email:     account.Email,
			Role:      account.Role,
		})
		id, _ := sess.Current()
		color.New(color.FgGreen).Printf("  ✓ Logged in as %s (%s)\n", id.FullName, id.Role)
	case store.CredentialsNoAccount:
		return fmt.Errorf("no account registered for %s", *email)
	case store.CredentialsWrongRole:
		return fmt.Errorf("account %s is not registered as %s", *email, *role)
	case store.CredentialsWrongPassword:
		return fmt.Errorf("wrong password for %s", *email)
	}
	return nil
}

func runAdd(ctx context.Context) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	artist := fs.String("artist", "", "Artist account email")
	title := fs.String("title", "", "Artwork title")
	price := fs.String("price", "", "Price")
	category := fs.String("category", "", "Category")
	image := fs.String("image", "", "Image path or URL")
	description := fs.String("description", "", "Description")
	fs.Parse(os.Args[2:])

	if *title == "" {
		return fmt.Errorf("--title is required")
	}
	if !store.ValidCategory(*category) {
		return fmt.Errorf("unknown category %q (choose from: %s)", *category, strings.Join(store.Categories, ", "))
	}

	cfg, st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	account, err := st.GetAccountByEmail(ctx, *artist)
	if err != nil {
		return fmt.Errorf("looking up artist %q: %w", *artist, err)
	}
	if account.Role != store.RoleArtist {
		return fmt.Errorf("account %s is not an artist", *artist)
	}

	if *image != "" {
		if _, err := imageref.Resolve(*image, cfg.Assets.Dir); err != nil {
			slog.Warn("image reference does not resolve", "image", *image)
		}
	}

	cat := catalog.New(st, slog.Default(), cfg.Catalog.SubscriberBuffer)
	defer cat.Close()

	art := &store.Artwork{
		Title:       *title,
		Price:       *price,
		Category:    *category,
		ImagePath:   *image,
		ArtistID:    account.ID,
		ArtistName:  account.FullName,
		Description: *description,
	}
	if err := cat.Add(ctx, art); err != nil {
		return err
	}

	color.New(color.FgGreen).Printf("  ✓ Listed %q\n", art.Title)
	fmt.Printf("  ID: %s\n", art.ID)
	return nil
}

func runRemove(ctx context.Context) error {
	fs := flag.NewFlagSet("remove", flag.ExitOnError)
	id := fs.String("id", "", "Artwork id")
	fs.Parse(os.Args[2:])

	if *id == "" {
		return fmt.Errorf("--id is required")
	}

	cfg, st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	cat := catalog.New(st, slog.Default(), cfg.Catalog.SubscriberBuffer)
	defer cat.Close()
	if err := cat.Load(ctx); err != nil {
		return err
	}

	if err := cat.RemoveByID(ctx, *id); err != nil {
		return err
	}

	color.New(color.FgGreen).Printf("  ✓ Removed artwork %s\n", *id)
	return nil
}

func runList(ctx context.Context) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	category := fs.String("category", store.CategoryAll, "Filter by category (All for everything)")
	artist := fs.String("artist", "", "Filter by artist email")
	fs.Parse(os.Args[2:])

	_, st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	var items []*store.Artwork
	if *artist != "" {
		account, err := st.GetAccountByEmail(ctx, *artist)
		if err != nil {
			return fmt.Errorf("looking up artist %q: %w", *artist, err)
		}
		items, err = st.ListArtworksByArtist(ctx, account.ID)
		if err != nil {
			return err
		}
	} else {
		items, err = st.ListArtworks(ctx)
		if err != nil {
			return err
		}
	}

	if *category != store.CategoryAll {
		filtered := items[:0]
		for _, a := range items {
			if a.Category == *category {
				filtered = append(filtered, a)
			}
		}
		items = filtered
	}

	if len(items) == 0 {
		fmt.Println("  (no artworks)")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tTITLE\tPRICE\tCATEGORY\tARTIST")
	fmt.Fprintln(w, "  --\t-----\t-----\t--------\t------")
	for _, a := range items {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n", shorten(a.ID), a.Title, a.Price, a.Category, a.ArtistName)
	}
	return w.Flush()
}

func runPlace(ctx context.Context) error {
	fs := flag.NewFlagSet("place", flag.ExitOnError)
	customer := fs.String("customer", "", "Customer account email")
	artworkID := fs.String("artwork", "", "Artwork id")
	qty := fs.Int("qty", 1, "Quantity")
	fs.Parse(os.Args[2:])

	if *artworkID == "" {
		return fmt.Errorf("--artwork is required")
	}

	_, st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	account, err := st.GetAccountByEmail(ctx, *customer)
	if err != nil {
		return fmt.Errorf("looking up customer %q: %w", *customer, err)
	}

	items, err := st.ListArtworks(ctx)
	if err != nil {
		return err
	}
	var art *store.Artwork
	for _, a := range items {
		if a.ID == *artworkID {
			art = a
			break
		}
	}
	if art == nil {
		return fmt.Errorf("artwork %s: %w", *artworkID, store.ErrNotFound)
	}

	order := &store.Order{
		CustomerID:   account.ID,
		CustomerName: account.FullName,
		ArtistID:     art.ArtistID,
		ArtistName:   art.ArtistName,
		ArtTitle:     art.Title,
		Quantity:     *qty,
		Amount:       parsePrice(art.Price) * float64(*qty),
	}
	if err := st.InsertOrder(ctx, order); err != nil {
		return err
	}

	color.New(color.FgGreen).Printf("  ✓ Ordered %d × %q\n", order.Quantity, art.Title)
	fmt.Printf("  ID:     %s\n", order.ID)
	fmt.Printf("  Amount: %.2f\n", order.Amount)
	return nil
}

func runOrders(ctx context.Context) error {
	fs := flag.NewFlagSet("orders", flag.ExitOnError)
	artist := fs.String("artist", "", "Filter by artist email")
	customer := fs.String("customer", "", "Filter by customer email")
	fs.Parse(os.Args[2:])

	_, st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	var orders []*store.Order
	switch {
	case *artist != "":
		account, err := st.GetAccountByEmail(ctx, *artist)
		if err != nil {
			return fmt.Errorf("looking up artist %q: %w", *artist, err)
		}
		orders, err = st.ListOrdersByArtist(ctx, account.ID)
		if err != nil {
			return err
		}
	case *customer != "":
		account, err := st.GetAccountByEmail(ctx, *customer)
		if err != nil {
			return fmt.Errorf("looking up customer %q: %w", *customer, err)
		}
		orders, err = st.ListOrdersByCustomer(ctx, account.ID)
		if err != nil {
			return err
		}
	default:
		orders, err = st.ListOrders(ctx)
		if err != nil {
			return err
		}
	}

	if len(orders) == 0 {
		fmt.Println("  (no orders)")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tARTWORK\tCUSTOMER\tARTIST\tQTY\tAMOUNT\tSTATUS\tORDERED")
	fmt.Fprintln(w, "  --\t-------\t--------\t------\t---\t------\t------\t-------")
	for _, o := range orders {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%d\t%.2f\t%s\t%s\n",
			shorten(o.ID), o.ArtTitle, o.CustomerName, o.ArtistName,
			o.Quantity, o.Amount, o.Status, o.OrderedOn.Format("Jan 02 15:04"))
	}
	return w.Flush()
}

func runTransition(ctx context.Context, action string) error {
	fs := flag.NewFlagSet(action, flag.ExitOnError)
	id := fs.String("id", "", "Order id")
	fs.Parse(os.Args[2:])

	if *id == "" {
		return fmt.Errorf("--id is required")
	}

	_, st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if action == "accept" {
		err = st.AcceptOrder(ctx, *id)
	} else {
		err = st.RejectOrder(ctx, *id)
	}
	if err != nil {
		return err
	}

	color.New(color.FgGreen).Printf("  ✓ Order %sed: %s\n", action, *id)
	return nil
}

func runProfile(ctx context.Context) error {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	email := fs.String("email", "", "Account email")
	fs.Parse(os.Args[2:])

	_, st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	profile, err := st.GetProfile(ctx, *email)
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan)
	cyan.Println("  Profile")
	cyan.Println("  -------")
	fmt.Printf("  Name:    %s\n", profile.FullName)
	fmt.Printf("  Email:   %s\n", profile.Email)
	fmt.Printf("  Phone:   %s\n", profile.Phone)
	fmt.Printf("  Address: %s\n", profile.Address)
	return nil
}

func runSeed(ctx context.Context) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	file := fs.String("file", "seed.toml", "Path to TOML fixture file")
	fs.Parse(os.Args[2:])

	cfg, st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	cat := catalog.New(st, slog.Default(), cfg.Catalog.SubscriberBuffer)
	defer cat.Close()

	summary, err := seed.Apply(ctx, st, cat, *file, slog.Default())
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	green.Printf("  ✓ Accounts created: %d (skipped %d)\n", summary.AccountsCreated, summary.AccountsSkipped)
	green.Printf("  ✓ Artworks added:   %d\n", summary.ArtworksAdded)
	return nil
}

func runStats(ctx context.Context) error {
	cfg, st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	cyan := color.New(color.FgCyan)
	cyan.Print(banner)
	color.New(color.FgHiBlack).Printf("    version: %s\n\n", version)

	counts, err := st.Counts(ctx)
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	green.Print("    ▶ ")
	fmt.Printf("Database: %s\n", cfg.Database.Path)
	for _, table := range []string{"accounts", "artworks", "orders"} {
		green.Print("    ▶ ")
		fmt.Printf("%-9s %d\n", table+":", counts[table])
	}
	return nil
}

func runInit() error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("artflow configuration setup")
	fmt.Println("===========================")
	fmt.Println()

	defaultConfigPath := getConfigPath()

	outputFile := prompt(reader, "Config file path", defaultConfigPath)

	if _, err := os.Stat(outputFile); err == nil {
		overwrite := prompt(reader, "File exists. Overwrite?", "no")
		if strings.ToLower(overwrite) != "yes" && strings.ToLower(overwrite) != "y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	fmt.Println("\n--- Database Configuration ---")
	dbPath := prompt(reader, "SQLite database path", defaultDBPath())

	fmt.Println("\n--- Assets Configuration ---")
	assetsDir := prompt(reader, "Bundled image directory (empty to disable)", "")

	fmt.Println("\n--- Logging Configuration ---")
	logLevel := prompt(reader, "Log level (debug/info/warn/error)", "info")
	logFormat := prompt(reader, "Log format (text/json)", "text")

	var cfg strings.Builder
	cfg.WriteString("# artflow configuration\n")
	cfg.WriteString("# Generated by artflow init\n\n")

	cfg.WriteString("database:\n")
	cfg.WriteString(fmt.Sprintf("  path: \"%s\"\n", dbPath))
	cfg.WriteString("\n")

	cfg.WriteString("catalog:\n")
	cfg.WriteString("  subscriber_buffer: 64\n")
	cfg.WriteString("\n")

	if assetsDir != "" {
		cfg.WriteString("assets:\n")
		cfg.WriteString(fmt.Sprintf("  dir: \"%s\"\n", assetsDir))
		cfg.WriteString("\n")
	}

	cfg.WriteString("logging:\n")
	cfg.WriteString(fmt.Sprintf("  level: \"%s\"\n", logLevel))
	cfg.WriteString(fmt.Sprintf("  format: \"%s\"\n", logFormat))

	configDir := filepath.Dir(outputFile)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(outputFile, []byte(cfg.String()), 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	dataDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	fmt.Printf("\nConfig written to %s\n", outputFile)
	fmt.Println("\nTo get started:")
	fmt.Printf("  artflow seed --file seed.toml\n")
	fmt.Printf("  artflow list\n")

	return nil
}

// defaultDBPath returns the default database location.
// Priority: XDG_DATA_HOME/artflow > ~/.local/share/artflow
func defaultDBPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "artflow.db" // fallback
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataDir, "artflow", "artflow.db")
}

func prompt(reader *bufio.Reader, question, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("%s [%s]: ", question, defaultVal)
	} else {
		fmt.Printf("%s: ", question)
	}

	input, err := reader.ReadString('\n')
	if err != nil {
		fmt.Println()
		return defaultVal
	}
	input = strings.TrimSpace(input)

	if input == "" {
		return defaultVal
	}
	return input
}

// parsePrice reads a price string the way the listing screens do: loosely,
// with anything unparseable treated as zero.
func parsePrice(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func shorten(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
