package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/yigit/skillswap/internal/app/auth"
	"github.com/yigit/skillswap/internal/app/models"
	"github.com/yigit/skillswap/internal/app/repositories/memory"
	pkgauth "github.com/yigit/skillswap/internal/pkg/auth"
	"github.com/yigit/skillswap/internal/pkg/realtime"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	store         *memory.Store
	bus           *realtime.LocalBus
	auth          *AuthService
	profiles      *ProfileService
	matches       *MatchService
	connections   *ConnectionService
	conversations *ConversationService
	campus        *CampusService
	dashboard     *DashboardService
}

func newTestEnv(t *testing.T, policy string) *testEnv {
	t.Helper()
	pkgauth.BcryptCost = bcrypt.MinCost

	log := zerolog.Nop()
	store := memory.NewStore()
	bus := realtime.NewLocalBus()
	t.Cleanup(func() { _ = bus.Close() })

	jwt := pkgauth.NewJWTService(pkgauth.JWTConfig{SecretKey: "test", AccessTokenExp: time.Hour, TokenIssuer: "test"})
	authz := auth.NewAuthorizationService(store.Connections(), log)

	env := &testEnv{store: store, bus: bus}
	env.auth = NewAuthService(store, store, jwt, log)
	env.profiles = NewProfileService(store, log)
	env.matches = NewMatchService(store, log)
	env.connections = NewConnectionService(store.Connections(), store, authz, policy, log)
	env.conversations = NewConversationService(store.Messages(), authz, bus, 50, log)
	env.campus = NewCampusService(env.connections, store, log)
	env.dashboard = NewDashboardService(store, env.matches, env.connections, log)
	return env
}

func (e *testEnv) profile(t *testing.T, name string, teach, learn []string) models.Profile {
	t.Helper()
	p := &models.Profile{
		Email:       name + "-" + uuid.NewString()[:8] + "@campus.edu",
		FullName:    name,
		SkillsTeach: teach,
		SkillsLearn: learn,
	}
	require.NoError(t, e.store.Create(context.Background(), p))
	return *p
}

// accepted creates an accepted connection from a to b.
func (e *testEnv) accepted(t *testing.T, a, b models.Profile) models.Connection {
	t.Helper()
	ctx := context.Background()
	conn, err := e.connections.SendRequest(ctx, a.ID, b.ID)
	require.NoError(t, err)
	conn, err = e.connections.Respond(ctx, b.ID, conn.ID, models.ConnectionAccepted)
	require.NoError(t, err)
	return *conn
}

