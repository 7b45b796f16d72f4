// Package database provides the MySQL connection used by the observed-store
// controller. It wraps gorm with sane pool defaults and connection timeouts.
package database
