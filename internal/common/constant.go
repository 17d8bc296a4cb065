package common

// AuthorizationHeaderName is the HTTP header carrying bearer credentials.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the only authorization scheme the API accepts.
const BearerScheme = "Bearer"
