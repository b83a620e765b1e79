// Package config provides configuration management for MaestroChat.
//
// Configuration is layered:
//
//  1. Built-in defaults (GetDefaultConfig)
//  2. config.yaml in the directory given by --config-path, or
//     ~/.config/maestrochat when no path is given
//  3. Environment variables, which always win
//
// # Environment Variables
//
//   - GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET: OAuth client credentials. These
//     are never read from config.yaml and are not validated at load time; the
//     Google connector fails when it first needs them.
//   - GOOGLE_REDIRECT_URI: OAuth callback URL
//     (default http://localhost:3000/api/google/callback)
//   - NODE_ENV (or APP_ENV): "production" enables Secure cookies
//   - PORT, MAESTRO_HOST: HTTP listener
//   - MAESTRO_SESSION_BACKEND, MAESTRO_REDIS_ADDR, MAESTRO_REDIS_PASSWORD,
//     MAESTRO_REDIS_DB: session store
//   - MAESTRO_LOG_LEVEL, MAESTRO_LOG_FORMAT: logging
//
// # Example config.yaml
//
//	environment: production
//	server:
//	  host: 0.0.0.0
//	  port: 8080
//	session:
//	  backend: redis
//	  redisAddr: redis:6379
//	  ttl: 168h
//	logging:
//	  level: debug
//	  format: json
package config
