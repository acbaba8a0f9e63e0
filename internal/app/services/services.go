package services

// Services defined in this package:
// - AuthService: registration, login and profile management
// - BookService: the book lifecycle (listing, requests, handover, receipt)
// - ReportService: complaint filing and admin resolution
// - PostService: the community board feed
