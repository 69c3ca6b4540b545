// Package services contains the application services behind the HTTP
// handlers: the data service owning the pipeline result and the health
// service.
package services
