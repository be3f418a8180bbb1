// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}
}

// setupCommand writes a config file and prepares the local store.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml and initialize the local store",
		Action: r.Setup,
	}
}

// authCommand handles the session lifecycle
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the server session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Log in and store the bearer token",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Required: true, Sources: cli.EnvVars("SKIPIFY_PASSWORD")},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create a server account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Required: true},
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Required: true, Sources: cli.EnvVars("SKIPIFY_PASSWORD")},
				},
				Action: r.AuthRegister,
			},
			{
				Name:   "offline",
				Usage:  "Continue as guest with local data only",
				Action: r.AuthOffline,
			},
			{
				Name:   "logout",
				Usage:  "Forget the stored session",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show the current mode and identity",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.AuthStatus,
			},
		},
	}
}

// songsCommand handles the song library
func songsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "songs",
		Usage: "Device and server songs",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List local and remote songs",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.SongsList,
			},
			{
				Name:      "scan",
				Usage:     "Add audio files from a directory as local songs",
				Arguments: []cli.Argument{&cli.StringArg{Name: "dir"}},
				Action:    r.SongsScan,
			},
			{
				Name:      "upload",
				Usage:     "Upload one local song to the server",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.SongsUpload,
			},
			{
				Name:  "upload-all",
				Usage: "Upload every local song to the server",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "workers", Usage: "Concurrent uploads (max 5)", Value: 2},
					&cli.FloatFlag{Name: "rate", Usage: "Uploads started per second", Value: 2},
				},
				Action: r.SongsUploadAll,
			},
			{
				Name:      "delete",
				Usage:     "Delete a song from the device or the server",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.SongsDelete,
			},
			{
				Name:      "search",
				Usage:     "Fuzzy search titles, artists and albums",
				Arguments: []cli.Argument{&cli.StringArg{Name: "query"}},
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.SongsSearch,
			},
		},
	}
}

// playlistsCommand handles playlists
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "Local and server playlists",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List local and remote playlists",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.PlaylistsList,
			},
			{
				Name:      "show",
				Usage:     "Show a playlist's songs",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.PlaylistsShow,
			},
			{
				Name:      "create",
				Usage:     "Create a playlist",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "song", Usage: "Song id to include (repeatable)"},
					&cli.BoolFlag{Name: "remote", Usage: "Create on the server instead of the device"},
				},
				Action: r.PlaylistsCreate,
			},
			{
				Name:  "add",
				Usage: "Add a song to a playlist",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "playlist", Required: true},
					&cli.StringFlag{Name: "song", Required: true},
				},
				Action: r.PlaylistsAdd,
			},
			{
				Name:      "delete",
				Usage:     "Delete a playlist",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.PlaylistsDelete,
			},
		},
	}
}

// favoritesCommand handles favorite marks
func favoritesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"fav"},
		Usage:   "Favorite songs",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List favorites resolved against the library",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.FavoritesList,
			},
			{
				Name:      "toggle",
				Usage:     "Mark or unmark a song",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.FavoritesToggle,
			},
		},
	}
}

// exportCommand writes snapshots to disk
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the library or a playlist",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "playlist", Usage: "Playlist id; the whole library when empty"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "csv, markdown or text", Value: "csv"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output path or base name"},
		},
		Action: r.Export,
	}
}

// apiCommand handles direct API calls with the stored credential
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls with the stored session",
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "GET a path and print the body",
				Arguments: []cli.Argument{&cli.StringArg{Name: "path"}},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output", Value: true},
				},
				Action: r.APIGet,
			},
			{
				Name:      "post",
				Usage:     "POST a JSON body",
				Arguments: []cli.Argument{&cli.StringArg{Name: "path"}},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "data", Aliases: []string{"d"}, Usage: "JSON body to send", Required: true},
				},
				Action: r.APIPost,
			},
		},
	}
}

// serveCommand runs the loopback development API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the in-memory development API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "Listen address (defaults to [server] in config)"},
		},
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive library browser",
		Action:  r.TUI,
	}
}
