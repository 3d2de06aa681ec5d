package manifest

import "strings"

// ConfiguredURL is a public URL another service is configured with.
type ConfiguredURL struct {
	// Variable is the environment variable carrying the URL.
	Variable string
	// Deployment is the service whose manifest sets Variable.
	Deployment string
	Value      string
}

// ConfiguredURL reports the URL wired to the entry point behind ingress: the web
// deployment's API_URL for the api entry point and the api deployment's APP_URL for the
// web entry point. It returns false when the entry point has no such wiring or the
// manifest does not set the variable.
func (l Layout) ConfiguredURL(ingress string) (ConfiguredURL, bool) {
	var consumer ServiceRef
	var variable string
	switch {
	case ingress == "api" || strings.HasSuffix(ingress, "api-ingress"):
		consumer, variable = ServiceRef{Service: "web"}, "API_URL"
	case ingress == "web" || strings.HasSuffix(ingress, "web-ingress"):
		consumer, variable = ServiceRef{Service: "api"}, "APP_URL"
	default:
		return ConfiguredURL{}, false
	}

	value, ok := EnvValue(l.Deployment(consumer).Path, variable)
	if !ok {
		return ConfiguredURL{}, false
	}
	return ConfiguredURL{Variable: variable, Deployment: consumer.String(), Value: value}, true
}
