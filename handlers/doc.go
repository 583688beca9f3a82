// Package handlers provides the HTTP request handlers for the SRE API.
//
// Overview
//
// Handlers are organized by functionality:
//   - health.go: Health check endpoint
//   - targets.go: List/attach/detach instances on the managed load balancer
//
// Request Flow
//
// The target handlers follow a consistent pattern:
//   1. Parse and validate the request body
//   2. Verify the instance exists (EC2 DescribeInstances)
//   3. Resolve the configured load balancer to its target group
//   4. Query or mutate target group membership (ELBv2)
//   5. Log the outcome and render JSON
//
// Error Handling
//
// All errors are returned as JSON bodies of the form {"error": "..."} with:
//   - 400: invalid request body or unknown instance
//   - 404: load balancer or target group not found
//   - 409: instance already attached (POST) / not attached (DELETE)
//   - 500: any other provider error, with the provider message as the body
//
// The service keeps no state between requests; every handler resolves the
// load balancer and target group against live AWS state.
package handlers
