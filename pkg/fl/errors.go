package fl

import "errors"

var (
	ErrNoUpdates     = errors.New("no fit results to aggregate")
	ErrNoEvaluations = errors.New("no evaluate results to aggregate")
	ErrNoClients     = errors.New("no clients available")
	ErrQuorum        = errors.New("not enough clients available")
)
