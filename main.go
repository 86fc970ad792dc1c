// Project Structure Overview
/*
keebmarket-backend/
├── cmd/
│   └── server/
│       └── main.go
├── internal/
│   ├── config/
│   │   ├── config.go
│   │   └── database.go
│   ├── models/
│   │   ├── user.go
│   │   ├── product.go
│   │   ├── views.go
│   │   └── common.go
│   ├── shipping/
│   │   ├── shipping.go
│   │   └── currency.go
│   ├── handlers/
│   │   ├── listing.go
│   │   ├── user.go
│   │   ├── report.go
│   │   ├── catalog.go
│   │   └── errors.go
│   ├── services/
│   │   ├── listing_service.go
│   │   ├── profile_service.go
│   │   ├── report_service.go
│   │   ├── storage_service.go
│   │   ├── metrics.go
│   │   └── errors.go
│   ├── middleware/
│   │   ├── auth.go
│   │   ├── cors.go
│   │   ├── rate_limit.go
│   │   ├── i18n.go
│   │   ├── metrics.go
│   │   └── logging.go
│   ├── database/
│   │   ├── connection.go
│   │   └── seed.go
│   ├── i18n/
│   │   ├── i18n.go
│   │   ├── locales/
│   │   │   ├── en.json
│   │   │   └── zh_TW.json
│   │   └── keys.go
│   ├── utils/
│   │   ├── jwt.go
│   │   ├── validator.go
│   │   ├── pagination.go
│   │   └── response.go
│   ├── router/
│   │   └── router.go
│   ├── client/
│   │   ├── client.go
│   │   ├── listings.go
│   │   └── users.go
│   ├── feed/
│   │   ├── state.go
│   │   └── controller.go
│   ├── profileform/
│   │   ├── form.go
│   │   └── phone.go
│   └── tests/
│       └── api_test.go
├── go.mod
└── go.sum
*/

package keebmarket

// This file shows the project structure; the server entry point is cmd/server.
