// Package sdk is a thin HTTP client for the coordinator's API, used by
// the flock CLI and the terminal status display.
package sdk

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rodneyosodo/flock/pkg/fl"
)

const CTJSON string = "application/json"

const (
	sessionEndpoint = "/session"
	clientsEndpoint = "/clients"
	roundsEndpoint  = "/rounds"
	eventsEndpoint  = "/events"
)

type SDK interface {
	// GetSession returns the orchestrator's current position.
	//
	// example:
	//  session, _ := sdk.GetSession()
	//  fmt.Println(session)
	GetSession() (fl.Session, error)

	// ListClients lists the cohort.
	//
	// example:
	//  page, _ := sdk.ListClients(0, 10)
	//  fmt.Println(page)
	ListClients(offset, limit uint64) (fl.ClientPage, error)

	// GetRound returns one round's record.
	//
	// example:
	//  round, _ := sdk.GetRound(1)
	//  fmt.Println(round)
	GetRound(round uint64) (fl.RoundState, error)

	// ListRounds lists the round history.
	//
	// example:
	//  page, _ := sdk.ListRounds(0, 10)
	//  fmt.Println(page)
	ListRounds(offset, limit uint64) (fl.RoundPage, error)

	// ListEvents lists the coordinator's event log.
	//
	// example:
	//  page, _ := sdk.ListEvents(0, 100)
	//  fmt.Println(page)
	ListEvents(offset, limit uint64) (fl.EventPage, error)
}

type flockSDK struct {
	coordinatorURL string
	client         *http.Client
}

type Config struct {
	CoordinatorURL  string
	TLSVerification bool
}

func NewSDK(cfg Config) SDK {
	return &flockSDK{
		coordinatorURL: cfg.CoordinatorURL,
		client: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: !cfg.TLSVerification,
				},
			},
		},
	}
}

func (sdk *flockSDK) GetSession() (fl.Session, error) {
	var session fl.Session
	if err := sdk.get(sdk.coordinatorURL+sessionEndpoint, &session); err != nil {
		return fl.Session{}, err
	}

	return session, nil
}

func (sdk *flockSDK) ListClients(offset, limit uint64) (fl.ClientPage, error) {
	var page fl.ClientPage
	url := fmt.Sprintf("%s%s?offset=%d&limit=%d", sdk.coordinatorURL, clientsEndpoint, offset, limit)
	if err := sdk.get(url, &page); err != nil {
		return fl.ClientPage{}, err
	}

	return page, nil
}

func (sdk *flockSDK) GetRound(round uint64) (fl.RoundState, error) {
	var r fl.RoundState
	url := fmt.Sprintf("%s%s/%d", sdk.coordinatorURL, roundsEndpoint, round)
	if err := sdk.get(url, &r); err != nil {
		return fl.RoundState{}, err
	}

	return r, nil
}

func (sdk *flockSDK) ListRounds(offset, limit uint64) (fl.RoundPage, error) {
	var page fl.RoundPage
	url := fmt.Sprintf("%s%s?offset=%d&limit=%d", sdk.coordinatorURL, roundsEndpoint, offset, limit)
	if err := sdk.get(url, &page); err != nil {
		return fl.RoundPage{}, err
	}

	return page, nil
}

func (sdk *flockSDK) ListEvents(offset, limit uint64) (fl.EventPage, error) {
	var page fl.EventPage
	url := fmt.Sprintf("%s%s?offset=%d&limit=%d", sdk.coordinatorURL, eventsEndpoint, offset, limit)
	if err := sdk.get(url, &page); err != nil {
		return fl.EventPage{}, err
	}

	return page, nil
}

func (sdk *flockSDK) get(reqURL string, out any) error {
	req, err := http.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	req.Header.Add("Content-Type", CTJSON)

	resp, err := sdk.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected response code: %d", resp.StatusCode)
	}

	return json.Unmarshal(body, out)
}
