// Package teams imports Microsoft Teams call recordings into the knowledge
// base. The Client authenticates against Microsoft identity with an app-only
// client-credentials grant and reads the Graph call-records API; the Importer
// downloads each recording, transcribes it with speaker identification and
// ingests the transcript as a teams_recording document.
package teams
