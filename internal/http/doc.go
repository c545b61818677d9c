// Package http serves the parish site as JSON over a chi router.
//
// Route groups:
//   - Public: /api/home, /api/articles, /api/pages/{slug},
//     /api/team (/api/equipe), /api/schedules (/api/horaires), /api/faq,
//     /api/audio, /api/footer, /api/legal/{doc}, POST /api/contact,
//     POST /api/newsletter, /sitemap.xml, /media/{bucket}/*
//   - Auth: /auth/session, /auth/signup, /auth/signin, /auth/signout
//   - Admin (staff only, CSRF checked): /admin/api/{resource} CRUD and toggle
//     for articles, pages, team, schedules, faq, audio, footer-links and
//     social-links, plus messages, subscribers, roles, uploads, slugify,
//     richtext and activity.
//
// Every request resolves the session user and its role again, so a revoked
// role stops working on the next request.
package http
