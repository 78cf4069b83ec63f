// Package main provides the readaloud client CLI.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"

	apiconnect "github.com/osa030/readaloud/internal/api/connect"
)

var (
	app    = kingpin.New("readaloud", "readaloud narration client")
	server = app.Flag("server", "Server address").Default("http://localhost:8080").String()
	token  = app.Flag("admin-token", "Admin token (or set ADMIN_TOKEN env)").Envar("ADMIN_TOKEN").String()

	// articles command
	articlesCmd        = app.Command("articles", "List articles").Alias("ls")
	articlesCategory   = articlesCmd.Flag("category", "Category filter").String()
	articlesDifficulty = articlesCmd.Flag("difficulty", "Difficulty filter (Easy, Medium, Hard)").String()
	articlesSearch     = articlesCmd.Flag("search", "Search title, summary and content").String()
	articlesOffset     = articlesCmd.Flag("offset", "Number of articles to skip").Int()
	articlesLimit      = articlesCmd.Flag("limit", "Page size (default: server setting)").Int()

	// play command
	playCmd        = app.Command("play", "Play an article")
	playArticle    = playCmd.Arg("article-id", "Article ID").Required().String()
	playQueue      = playCmd.Flag("queue", "Comma-separated article IDs to use as the queue").String()
	playCategory   = playCmd.Flag("category", "Queue the articles of this category").String()
	playDifficulty = playCmd.Flag("difficulty", "Queue the articles of this difficulty").String()
	playSearch     = playCmd.Flag("search", "Queue the articles matching this term").String()

	toggleCmd = app.Command("toggle", "Pause or resume narration")
	nextCmd   = app.Command("next", "Play the next article")
	prevCmd   = app.Command("prev", "Play the previous article")
	closeCmd  = app.Command("close", "Stop narration and close the player")

	// status command
	statusCmd   = app.Command("status", "Show player status")
	statusQueue = statusCmd.Flag("queue", "Also list the queue").Bool()

	// stats command
	statsCmd    = app.Command("stats", "Show listening statistics")
	statsRecent = statsCmd.Flag("recent", "Number of recent records to show").Default("10").Int()

	// subscribe command
	subscribeCmd = app.Command("subscribe", "Subscribe to player events")

	// import command
	importCmd      = app.Command("import", "Import articles from an RSS/Atom feed (admin)")
	importURL      = importCmd.Arg("feed-url", "Feed URL").Required().String()
	importCategory = importCmd.Flag("category", "Category of the imported articles").Required().String()

	// delete command
	deleteCmd     = app.Command("delete", "Delete an imported article (admin)")
	deleteArticle = deleteCmd.Arg("article-id", "Article ID").Required().String()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	player := apiconnect.NewPlayerServiceClient(http.DefaultClient, *server)
	catalog := apiconnect.NewCatalogServiceClient(http.DefaultClient, *server)

	ctx := context.Background()

	switch command {
	case articlesCmd.FullCommand():
		listArticles(ctx, catalog)
	case playCmd.FullCommand():
		play(ctx, player)
	case toggleCmd.FullCommand():
		printStatus(call(player.TogglePlay(ctx, connect.NewRequest(&apiconnect.TogglePlayRequest{}))))
	case nextCmd.FullCommand():
		printStatus(call(player.PlayNext(ctx, connect.NewRequest(&apiconnect.PlayNextRequest{}))))
	case prevCmd.FullCommand():
		printStatus(call(player.PlayPrev(ctx, connect.NewRequest(&apiconnect.PlayPrevRequest{}))))
	case closeCmd.FullCommand():
		printStatus(call(player.ClosePlayer(ctx, connect.NewRequest(&apiconnect.ClosePlayerRequest{}))))
	case statusCmd.FullCommand():
		status(ctx, player)
	case statsCmd.FullCommand():
		stats(ctx, player)
	case subscribeCmd.FullCommand():
		subscribe(ctx, player)
	case importCmd.FullCommand():
		importFeed(ctx, catalog)
	case deleteCmd.FullCommand():
		removeArticle(ctx, catalog)
	}
}

// call unwraps a player control response or exits on error.
func call(resp *connect.Response[apiconnect.StatusResponse], err error) *apiconnect.PlayerStatus {
	if err != nil {
		exitOnError(err)
	}
	return resp.Msg.Status
}

func exitOnError(err error) {
	fmt.Printf("Error: %v\n", err)
	os.Exit(1)
}

func listArticles(ctx context.Context, client *apiconnect.CatalogServiceClient) {
	resp, err := client.ListArticles(ctx, connect.NewRequest(&apiconnect.ListArticlesRequest{
		Category:   *articlesCategory,
		Difficulty: *articlesDifficulty,
		Search:     *articlesSearch,
		Offset:     *articlesOffset,
		Limit:      *articlesLimit,
	}))
	if err != nil {
		exitOnError(err)
	}

	for _, a := range resp.Msg.Articles {
		fmt.Printf("%-38s %-12s %-7s %3d min  %s\n", a.ID, a.Category, a.Difficulty, a.DurationMinutes, a.Title)
	}
	shown := len(resp.Msg.Articles)
	if shown > 0 {
		fmt.Printf("\n%d-%d of %d articles\n", resp.Msg.Offset+1, resp.Msg.Offset+shown, resp.Msg.Total)
	} else {
		fmt.Printf("No articles (total %d)\n", resp.Msg.Total)
	}
}

func play(ctx context.Context, client *apiconnect.PlayerServiceClient) {
	var queue []string
	for _, id := range strings.Split(*playQueue, ",") {
		if id = strings.TrimSpace(id); id != "" {
			queue = append(queue, id)
		}
	}

	printStatus(call(client.PlayArticle(ctx, connect.NewRequest(&apiconnect.PlayArticleRequest{
		ArticleID:  *playArticle,
		QueueIDs:   queue,
		Category:   *playCategory,
		Difficulty: *playDifficulty,
		Search:     *playSearch,
	}))))
}

func status(ctx context.Context, client *apiconnect.PlayerServiceClient) {
	resp, err := client.GetStatus(ctx, connect.NewRequest(&apiconnect.GetStatusRequest{IncludeQueue: *statusQueue}))
	if err != nil {
		exitOnError(err)
	}
	printStatus(resp.Msg.Status)

	if *statusQueue {
		fmt.Println("\nQueue:")
		for i, a := range resp.Msg.Queue {
			marker := " "
			if i == resp.Msg.Status.Position {
				marker = ">"
			}
			fmt.Printf(" %s %2d. %s (%s)\n", marker, i+1, a.Title, a.ID)
		}
	}
}

func stats(ctx context.Context, client *apiconnect.PlayerServiceClient) {
	resp, err := client.GetStats(ctx, connect.NewRequest(&apiconnect.GetStatsRequest{RecentLimit: *statsRecent}))
	if err != nil {
		exitOnError(err)
	}

	s := resp.Msg
	fmt.Println("\n=== LISTENING STATS ===")
	fmt.Printf("Articles listened: %d\n", s.TotalRecords)
	fmt.Printf("Completed: %d\n", s.CompletedCount)
	fmt.Printf("Listening time: %v\n", time.Duration(s.ListenedSeconds)*time.Second)
	fmt.Printf("Streak: %d day(s)\n", s.StreakDays)

	if len(s.Recent) > 0 {
		fmt.Println("\nRecent:")
		for _, r := range s.Recent {
			done := " "
			if r.Completed {
				done = "✓"
			}
			fmt.Printf("  %s %s  %-40s %v\n", done, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.ArticleTitle,
				time.Duration(r.ListenedSeconds)*time.Second)
		}
	}
}

func subscribe(ctx context.Context, client *apiconnect.PlayerServiceClient) {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	stream, err := client.SubscribeEvents(ctx, connect.NewRequest(&apiconnect.SubscribeEventsRequest{}))
	if err != nil {
		exitOnError(err)
	}
	defer stream.Close()

	fmt.Println("Subscribed to player events. Press Ctrl+C to exit.")

	for stream.Receive() {
		printEvent(stream.Msg())
	}

	if err := stream.Err(); err != nil && ctx.Err() == nil {
		fmt.Printf("Stream error: %v\n", err)
	}
}

func requireToken() {
	if *token == "" {
		fmt.Println("Error: admin token is required (use --admin-token or ADMIN_TOKEN env)")
		os.Exit(1)
	}
}

func importFeed(ctx context.Context, client *apiconnect.CatalogServiceClient) {
	requireToken()

	req := connect.NewRequest(&apiconnect.ImportFeedRequest{
		URL:      *importURL,
		Category: *importCategory,
	})
	req.Header().Set(apiconnect.AdminTokenHeader, *token)
	resp, err := client.ImportFeed(ctx, req)
	if err != nil {
		exitOnError(err)
	}

	r := resp.Msg
	fmt.Printf("Imported %q: %d items, %d added, %d skipped\n", r.FeedTitle, r.Fetched, r.Added, r.Skipped)
}

func removeArticle(ctx context.Context, client *apiconnect.CatalogServiceClient) {
	requireToken()

	req := connect.NewRequest(&apiconnect.DeleteArticleRequest{ArticleID: *deleteArticle})
	req.Header().Set(apiconnect.AdminTokenHeader, *token)
	if _, err := client.DeleteArticle(ctx, req); err != nil {
		exitOnError(err)
	}
	fmt.Printf("Deleted article %s\n", *deleteArticle)
}

func formatState(state string) string {
	switch state {
	case "playing":
		return "▶️  Playing"
	case "paused":
		return "⏸  Paused"
	case "idle":
		return "⏹  Idle"
	default:
		return "❓ " + state
	}
}

func printStatus(s *apiconnect.PlayerStatus) {
	if s == nil {
		return
	}
	fmt.Printf("State: %s\n", formatState(s.State))
	if a := s.CurrentArticle; a != nil {
		fmt.Printf("Article: %s (%s)\n", a.Title, a.ID)
		fmt.Printf("  %s / %s / %d min\n", a.Category, a.Difficulty, a.DurationMinutes)
		fmt.Printf("Queue: %d of %d\n", s.Position+1, s.QueueLength)
	}
	if s.MediaURL != "" {
		fmt.Printf("Audio: %s%s\n", strings.TrimRight(*server, "/"), s.MediaURL)
	}
}

func printEvent(e *apiconnect.PlayerEvent) {
	fmt.Printf("\n[Sequence: %d] %s ", e.SequenceNo, e.Time.Local().Format("15:04:05"))
	if e.Type == apiconnect.EventTypeInitialState {
		fmt.Println("=== INITIAL STATE ===")
	} else {
		fmt.Printf("=== %s ===\n", strings.ToUpper(strings.ReplaceAll(e.Type, "_", " ")))
	}
	if e.Article != nil {
		fmt.Printf("Event article: %s (%s)\n", e.Article.Title, e.Article.ID)
	}
	printStatus(e.Status)
}
