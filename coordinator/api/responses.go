package api

import (
	"net/http"

	"github.com/rodneyosodo/flock/pkg/api"
	"github.com/rodneyosodo/flock/pkg/fl"
)

var (
	_ api.Response = (*clientResponse)(nil)
	_ api.Response = (*listClientsResponse)(nil)
	_ api.Response = (*roundResponse)(nil)
	_ api.Response = (*listRoundsResponse)(nil)
	_ api.Response = (*sessionResponse)(nil)
	_ api.Response = (*listEventsResponse)(nil)
	_ api.Response = (*healthResponse)(nil)
)

type clientResponse struct {
	fl.Client
}

func (r clientResponse) Code() int {
	return http.StatusOK
}

func (r clientResponse) Headers() map[string]string {
	return map[string]string{}
}

func (r clientResponse) Empty() bool {
	return false
}

type listClientsResponse struct {
	fl.ClientPage
}

func (r listClientsResponse) Code() int {
	return http.StatusOK
}

func (r listClientsResponse) Headers() map[string]string {
	return map[string]string{}
}

func (r listClientsResponse) Empty() bool {
	return false
}

type roundResponse struct {
	fl.RoundState
}

func (r roundResponse) Code() int {
	return http.StatusOK
}

func (r roundResponse) Headers() map[string]string {
	return map[string]string{}
}

func (r roundResponse) Empty() bool {
	return false
}

type listRoundsResponse struct {
	fl.RoundPage
}

func (r listRoundsResponse) Code() int {
	return http.StatusOK
}

func (r listRoundsResponse) Headers() map[string]string {
	return map[string]string{}
}

func (r listRoundsResponse) Empty() bool {
	return false
}

type sessionResponse struct {
	fl.Session
}

func (r sessionResponse) Code() int {
	return http.StatusOK
}

func (r sessionResponse) Headers() map[string]string {
	return map[string]string{}
}

func (r sessionResponse) Empty() bool {
	return false
}

type listEventsResponse struct {
	fl.EventPage
}

func (r listEventsResponse) Code() int {
	return http.StatusOK
}

func (r listEventsResponse) Headers() map[string]string {
	return map[string]string{}
}

func (r listEventsResponse) Empty() bool {
	return false
}

type healthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Instance  string `json:"instance_id,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
}

func (r healthResponse) Code() int {
	return http.StatusOK
}

func (r healthResponse) Headers() map[string]string {
	return map[string]string{}
}

func (r healthResponse) Empty() bool {
	return false
}
