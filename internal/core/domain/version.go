package domain

// Version is the engine version embedded in persistence envelopes.
const Version = "1.0.0"
