package resolver

import "errors"

var (
	ErrLookupFailed = errors.New("uniqueness lookup failed")

	ErrFailedToParseRedisConnString = errors.New("failed to parse redis connection string")
	ErrRedisNotReady                = errors.New("redis did not become ready within the given time period")

	ErrFailedToParseDBConfig    = errors.New("failed to parse db config")
	ErrFailedToOpenDBConnection = errors.New("failed to open db connection")

	ErrFailedToConnectToMongo = errors.New("failed to connect to mongo")

	ErrHealthcheckFailed = errors.New("healthcheck failed")
)
