// Package task runs the application's background jobs. Currently that is
// the periodic check of users' aggregate study counters against the cards
// they own, scheduled with gocron.
package task
