package core

const (
	GeotrackContextKeyActorID   string = "geotrack.io/ctx/actor-id"
	GeotrackContextKeyActorRole string = "geotrack.io/ctx/actor-role"
	GeotrackContextKeyRequestID string = "geotrack.io/ctx/request-id"
	GeotrackContextKeySource    string = "geotrack.io/ctx/source"

	GeotrackContextKeyEventType    string = "geotrack.io/ctx/cloudevent/type"
	GeotrackContextKeyEventSubject string = "geotrack.io/ctx/cloudevent/subject"
)
