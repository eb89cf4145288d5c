package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/playtoearn/coinserver/internal/coin"
	"github.com/playtoearn/coinserver/internal/model"
)

// recordedRequest captures what the fake wallet service saw
type recordedRequest struct {
	Method string
	Path   string
	From   string
	Body   map[string]string
}

type StoreSuite struct {
	suite.Suite
	server   *httptest.Server
	store    *Store
	ctx      context.Context
	requests []recordedRequest

	// per-test response overrides
	status int
	body   string
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.requests = nil
	s.status = http.StatusOK
	s.body = ""

	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			From:   r.Header.Get("From"),
		}
		if r.Body != nil {
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			rec.Body = body
		}
		if r.URL.RawQuery != "" {
			rec.Path += "?" + r.URL.RawQuery
		}
		s.requests = append(s.requests, rec)

		w.WriteHeader(s.status)
		_, _ = w.Write([]byte(s.body))
	}))

	cfg := DefaultConfig()
	cfg.BaseURL = s.server.URL
	cfg.From = "test-caller"
	s.store = New(cfg)
	s.ctx = context.Background()
}

func (s *StoreSuite) TearDownTest() {
	s.server.Close()
}

func (s *StoreSuite) TestRegister() {
	err := s.store.Register(s.ctx, "player-1")
	s.Require().NoError(err)

	s.Require().Len(s.requests, 1)
	s.Equal(http.MethodPost, s.requests[0].Method)
	s.Equal("/register", s.requests[0].Path)
	s.Equal("test-caller", s.requests[0].From)
	s.Equal("player-1", s.requests[0].Body["uniqueid"])
}

func (s *StoreSuite) TestSetWallet() {
	addr := model.WalletAddress("0x1234567890abcdef1234567890abcdef12345678")
	err := s.store.SetWallet(s.ctx, "player-1", addr)
	s.Require().NoError(err)

	s.Require().Len(s.requests, 1)
	s.Equal(http.MethodPut, s.requests[0].Method)
	s.Equal("/updatewallet", s.requests[0].Path)
	s.Equal(string(addr), s.requests[0].Body["wallet"])
}

func (s *StoreSuite) TestIncrementSendsDecimalString() {
	err := s.store.Increment(s.ctx, "player-1", coin.MustParse("277777800000000"))
	s.Require().NoError(err)

	s.Require().Len(s.requests, 1)
	s.Equal(http.MethodPut, s.requests[0].Method)
	s.Equal("/increment", s.requests[0].Path)
	s.Equal("277777800000000", s.requests[0].Body["quantity"])
}

func (s *StoreSuite) TestBalanceParsesPlainText() {
	s.body = "1234567890123456\n"

	bal, err := s.store.Balance(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal("1234567890123456", bal.String())

	s.Require().Len(s.requests, 1)
	s.Equal("/getbalance?uniqueid=player-1", s.requests[0].Path)
}

func (s *StoreSuite) TestBalanceMalformedBody() {
	s.body = "not a number"

	_, err := s.store.Balance(s.ctx, "player-1")
	s.ErrorIs(err, model.ErrInvalidAmount)
}

func (s *StoreSuite) TestNotFoundMapsToErrNoWallet() {
	s.status = http.StatusNotFound

	_, err := s.store.Balance(s.ctx, "player-1")
	s.ErrorIs(err, model.ErrNoWallet)

	err = s.store.Increment(s.ctx, "player-1", coin.MustParse("1"))
	s.ErrorIs(err, model.ErrNoWallet)
}

func (s *StoreSuite) TestServerErrorIsGeneric() {
	s.status = http.StatusInternalServerError

	err := s.store.Register(s.ctx, "player-1")
	s.Require().Error(err)
	s.NotErrorIs(err, model.ErrNoWallet)
}

func (s *StoreSuite) TestUnreachableServiceIsTransient() {
	s.server.Close()

	err := s.store.Register(s.ctx, "player-1")
	s.ErrorIs(err, model.ErrStoreUnavailable)
}
