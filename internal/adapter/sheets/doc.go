// Package sheets implements the sheet store on the Google Sheets v4 values API.
//
// Connector exchanges the long-lived refresh token for a fresh access token on every
// Connect and returns a Store bound to that token. A1 addressing ("Queue!A:B",
// "Used!A:C") is confined to this package.
package sheets
