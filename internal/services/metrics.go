// internal/services/metrics.go
package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	malformedShippingTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "keebmarket",
		Name:      "listing_malformed_shipping_total",
		Help:      "Listings whose stored shipping data could not be decoded.",
	})

	imageUploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "keebmarket",
		Name:      "image_uploads_total",
		Help:      "Listing image uploads by backend and outcome.",
	}, []string{"backend", "outcome"})
)
