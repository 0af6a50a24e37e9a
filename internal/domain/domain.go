// Package domain holds the GORM models shared by the repo layer. All rows
// are exclusively owned by a single user; there is no cross-user sharing.
package domain
