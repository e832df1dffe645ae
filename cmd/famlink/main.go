package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc/status"

	"github.com/charadev96/famlink/internal/client"
	"github.com/charadev96/famlink/internal/client/domain"
	"github.com/charadev96/famlink/internal/client/repository"
	"github.com/charadev96/famlink/internal/shared/log"
)

const callTimeout = 15 * time.Second

type command struct {
	usage string
	run   func(app *app, args []string) error
}

var commands = map[string]command{
	"profile": {"profile add|use|list|remove ...", runProfile},
	"login":   {"login [-token T | -email E]", runLogin},
	"invite":  {"invite -email E [-role parent|child]", runInvite},
	"inbox":   {"inbox [-list]", runInbox},
	"sent":    {"sent", runSent},
	"accept":  {"accept CODE | accept -id ID", runAccept},
	"decline": {"decline ID", runDecline},
	"members": {"members", runMembers},
	"admin":   {"admin create-user|user|users|delete-user|token|unlink ...", runAdmin},
}

type app struct {
	profileName string
	profiles    *repository.TOMLProfileRepository
	client      *client.Client
	logger      *zerolog.Logger
}

func main() {
	fs := flag.NewFlagSet("famlink", flag.ExitOnError)
	profilesPath := fs.String("profiles", defaultProfilesPath(), "profile file")
	profileName := fs.String("profile", "", "profile to use (default: current profile)")
	logLevel := fs.String("log", "warn", "log level")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: famlink [flags] <command> [args]\n\ncommands:\n")
		names := make([]string, 0, len(commands))
		for name := range commands {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(fs.Output(), "  %s\n", commands[name].usage)
		}
		fmt.Fprintf(fs.Output(), "\nflags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(os.Args[1:])

	logger := log.New("client")
	if err := log.SetLevel(*logLevel); err != nil {
		logger.Fatal().Err(err).Msg("invalid flags")
	}
	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(2)
	}
	cmd, ok := commands[fs.Arg(0)]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n", fs.Arg(0))
		fs.Usage()
		os.Exit(2)
	}

	profiles := &repository.TOMLProfileRepository{FilePath: *profilesPath}
	a := &app{
		profileName: *profileName,
		profiles:    profiles,
		logger:      &logger,
		client: &client.Client{
			Profiles:             profiles,
			Logger:               &logger,
			UserTrustCertificate: confirmCertificate,
		},
	}
	if err := cmd.run(a, fs.Args()[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", describe(err))
		os.Exit(1)
	}
}

func defaultProfilesPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "famlink-profiles.toml"
	}
	return filepath.Join(dir, "famlink", "profiles.toml")
}

// profile resolves the selected profile.
func (a *app) profile() (domain.Profile, error) {
	name := a.profileName
	if name == "" {
		var err error
		name, err = a.profiles.Current()
		if errors.Is(err, domain.ErrProfileNotExist) {
			return domain.Profile{}, errors.New("no profile selected, run: famlink profile add")
		}
		if err != nil {
			return domain.Profile{}, err
		}
	}
	return a.profiles.Get(name)
}

func callContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), callTimeout)
}

// describe strips the gRPC envelope from server errors.
func describe(err error) string {
	if st, ok := status.FromError(err); ok {
		return fmt.Sprintf("%s (%s)", st.Message(), strings.ToLower(st.Code().String()))
	}
	return err.Error()
}
