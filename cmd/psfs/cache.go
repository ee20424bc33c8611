package main

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/psfs/core/config"
	"github.com/dmitrymomot/psfs/core/i18n"
	"github.com/dmitrymomot/psfs/core/view"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the response cache",
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge <uri>...",
	Short: "Remove cached responses for the given URIs",
	Long: `Remove the cached GET responses for each URI in every configured language.

Only anonymous variants are purged: pages cached for a signed-in user or for
requests that differed in a vary header are left to expire on their own.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCachePurge,
}

func init() {
	cacheCmd.AddCommand(cachePurgeCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCachePurge(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a := &app{settings: settings, log: newLogger(settings), sweepers: map[string]expirer{}}
	defer func() { _ = a.Close() }()
	if err := a.openCache(ctx); err != nil {
		return err
	}
	tr, err := purgeLanguages(settings)
	if err != nil {
		return err
	}

	for _, raw := range args {
		u, err := url.ParseRequestURI(raw)
		if err != nil {
			return fmt.Errorf("invalid uri %q: %w", raw, err)
		}
		for _, lang := range tr.Languages() {
			r, err := http.NewRequestWithContext(i18n.WithContext(ctx, tr), http.MethodGet, u.String(), nil)
			if err != nil {
				return err
			}
			r.Header.Set("Accept-Language", strings.ReplaceAll(lang, "_", "-"))
			if err := a.store.PurgeRequest(r.Context(), r); err != nil {
				return fmt.Errorf("purge %s (%s): %w", raw, lang, err)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "purged %s\n", raw)
	}
	return nil
}

// purgeLanguages loads the translations the server renders with, so the
// purge fingerprints match the served ones.
func purgeLanguages(s config.Settings) (*i18n.I18n, error) {
	params, err := config.New(s)
	if err != nil {
		return nil, err
	}
	lang := params.Param("default_language", i18n.DefaultLang)
	if _, err := i18n.Normalize(lang); err != nil {
		lang = i18n.DefaultLang
	}
	return view.NewI18n(
		i18n.WithDefaultLanguage(lang),
		i18n.WithDir(s.LocaleDir(), view.Namespace),
	)
}
