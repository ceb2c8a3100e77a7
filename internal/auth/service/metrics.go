package service

import "github.com/pmorel/tasklane/internal/observability/metrics"

func incrementAccountsRegistered() {
	metrics.AccountsRegistered.Inc()
}

func incrementAccessTokensIssued() {
	metrics.AccessTokensIssued.Inc()
}

func incrementSessionsIssued() {
	metrics.SessionsIssued.Inc()
}

func incrementSessionsRefreshed() {
	metrics.SessionsRefreshed.Inc()
}

func incrementSessionsRevoked() {
	metrics.SessionsRevoked.Inc()
}

func incrementSessionsExpired() {
	metrics.SessionsExpired.Inc()
}
