/*
Package session orchestrates access to the submission journal.

Submissions of the same form are serialized: a local mutex per form URL
protects a single process, and an optional ports.DistributedLocker extends
the guarantee to several processes sharing a journal.
*/
package session
