// Package resolver provides customAsync rules that check a value against an
// external store, typically to reject a username or email that is already
// registered.
//
// A Checker answers "does this value exist?". Unique turns a Checker into a
// constraint.AsyncFunc and Factory exposes it to rule set files:
//
//	rules:
//	  username:
//	    customAsync: {resolver: username_taken, message: is already taken}
//
// Checkers are provided for a Redis set (RedisSet), a PostgreSQL column
// (PostgresColumn) and a MongoDB field (MongoField), together with connection
// helpers whose configs load from the environment.
package resolver
