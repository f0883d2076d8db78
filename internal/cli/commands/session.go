package commands

import (
	"SkillHub/internal/cli/api"
	"SkillHub/internal/cli/auth"
	"SkillHub/internal/config"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// meResponse — ответ /api/me.
type meResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
	IsAdmin   bool   `json:"isAdmin"`
}

// newClient собирает клиента; requireLogin — ошибка, если токена нет.
func newClient(cfg *config.Config, requireLogin bool) (*api.Client, error) {
	tok, err := auth.LoadToken(cfg.TokenFile)
	if err != nil && (requireLogin || !errors.Is(err, auth.ErrNoToken)) {
		return nil, err
	}
	return api.NewClient(cfg.ServerURL, tok), nil
}

type loginCmd struct{}

func (loginCmd) Name() string        { return "login" }
func (loginCmd) Description() string { return "Проверить токен сессии и сохранить его" }
func (loginCmd) Usage() string       { return "login <token>" }
func (loginCmd) Group() string       { return GroupSession }

func (loginCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return ErrUsage
	}
	token := strings.TrimSpace(args[0])

	var me meResponse
	if err := api.NewClient(cfg.ServerURL, token).GetJSON(ctx, "/api/me", &me); err != nil {
		return fmt.Errorf("token rejected: %w", err)
	}
	if err := auth.SaveToken(cfg.TokenFile, token); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	role := ""
	if me.IsAdmin {
		role = " (admin)"
	}
	fmt.Fprintf(Out, "Logged in as %s [%s]%s\n", me.Name, me.ID, role)
	return nil
}

type logoutCmd struct{}

func (logoutCmd) Name() string        { return "logout" }
func (logoutCmd) Description() string { return "Удалить сохранённый токен" }
func (logoutCmd) Usage() string       { return "logout" }
func (logoutCmd) Group() string       { return GroupSession }

func (logoutCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	if err := auth.DeleteToken(cfg.TokenFile); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Logged out")
	return nil
}

type devLoginCmd struct{}

func (devLoginCmd) Name() string        { return "dev-login" }
func (devLoginCmd) Description() string { return "Войти без OAuth (сервер с DEV_LOGIN=true)" }
func (devLoginCmd) Usage() string       { return "dev-login <github-id> [name]" }
func (devLoginCmd) Group() string       { return GroupSession }

func (devLoginCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 || len(args) > 2 || strings.TrimSpace(args[0]) == "" {
		return ErrUsage
	}
	payload := map[string]string{"id": strings.TrimSpace(args[0])}
	if len(args) == 2 {
		payload["name"] = args[1]
	}

	var resp struct {
		User  meResponse `json:"user"`
		Token string     `json:"token"`
	}
	if err := api.NewClient(cfg.ServerURL, "").SendJSON(ctx, http.MethodPost, "/api/dev/login", payload, &resp); err != nil {
		return err
	}
	if err := auth.SaveToken(cfg.TokenFile, resp.Token); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	fmt.Fprintf(Out, "Logged in as %s [%s] (dev session)\n", resp.User.Name, resp.User.ID)
	return nil
}

func init() {
	RegisterCmd(loginCmd{})
	RegisterCmd(logoutCmd{})
	RegisterCmd(devLoginCmd{})
}
