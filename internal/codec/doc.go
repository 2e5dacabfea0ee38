// Package codec holds the fixed lookup tables that drive a conversion: which
// input extensions are recognized as audio, which output extension a codec
// produces, and which codecs the web form offers.
//
// The tables are unexported and only reachable through accessor functions;
// slices returned to callers are copies.
package codec
