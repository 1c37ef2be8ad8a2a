// Package log provides slog loggers that mask sensitive information.
//
// SecureHandler wraps any slog.Handler and rewrites attributes before they
// are written:
//   - values of sensitive keys (authorization, cookie, password, token...)
//   - bearer tokens, basic credentials and JWTs, whatever their key
//   - userinfo and secret query parameters in URLs
//     ("https://user:pw@host/?token=x" becomes
//     "https://***REDACTED***@host/?token=***REDACTED***")
//   - credentials in SOCKS5 proxy addresses ("user:pw@host:port")
//
// Crawled URLs are logged on every page, and seeds or proxies may carry
// credentials, so the masking applies even in verbose mode.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//	logger.Warn("fetch failed", "url", pageURL, "error", err)
package log
