// Package models defines domain entities and persistence interfaces for the rollcall enrollment sync service.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs representing LMS API data
//   - [Course] : Basic course metadata from the LMS
//   - [Enrollment] : A user's membership in a course with a role and state
//   - [User] : The profile nested inside an enrollment
//   - [ErrorRecord] : One failed enrollment attempt, destined for the CSV report
//   - [CloneSummary] : Final counters for a clone run
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [Run] : A recorded clone run with its course pair, counters, and timestamps
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
