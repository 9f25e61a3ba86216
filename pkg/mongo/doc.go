// Package mongo opens MongoDB clients for the session store.
//
// New applies pool and retry settings from Config, pings the server and
// retries with a fixed interval until RetryAttempts is exhausted or the
// context ends. Healthcheck wraps a ping for readiness probes.
//
// # Usage
//
//	client, err := mongo.New(ctx, mongo.DefaultConfig("mongodb://localhost:27017"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Disconnect(context.Background())
//
//	ready := mongo.Healthcheck(client)
//
// Failures wrap ErrFailedToConnectToMongo or ErrHealthcheckFailed together
// with the driver error.
package mongo
