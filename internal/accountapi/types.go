package accountapi

import "github.com/MarkoPoloResearchLab/bankaccount/pkg/account"

// accountEnvelope is returned by GET /api/account.
type accountEnvelope struct {
	SessionID string        `json:"session_id"`
	Account   account.State `json:"account"`
}

// actionEnvelope carries the post-action snapshot; Status is "applied" or "ignored".
type actionEnvelope struct {
	SessionID string        `json:"session_id"`
	Status    string        `json:"status"`
	Account   account.State `json:"account"`
}
