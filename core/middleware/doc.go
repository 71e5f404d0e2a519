// Package middleware groups the Fiber middleware mounted by the start command.
//
//   - rayid: tags each request with a Ray ID, echoed in the X-Ray-ID header
//     and attached to every log line through logger.WithRayID. It is mounted
//     first.
//   - auth: checks the X-API-Key header against server.api_key. Paths listed
//     in Config.Skip, such as /metrics, bypass the check so Prometheus can
//     scrape without the key.
package middleware
