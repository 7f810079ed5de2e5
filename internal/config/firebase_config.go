package config

type FirebaseConfig interface {
	GetFirebaseAPIKey() string
	GetFirebaseCredentialsFile() string
}

type Firebase struct{}

var _ FirebaseConfig = Firebase{}

// GetFirebaseAPIKey is the web API key used by the password sign-in REST
// call; the admin SDK uses the credentials file instead.
func (Firebase) GetFirebaseAPIKey() string {
	return GetEnv("FIREBASE_API_KEY", "")
}

func (Firebase) GetFirebaseCredentialsFile() string {
	return GetEnv("FIREBASE_CREDENTIALS_FILE", "serviceAccountKey.json")
}
