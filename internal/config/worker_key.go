package config

type WorkerKeyStruct struct {
	PersistEventsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	PersistEventsQueue: "persist_interview_events_queue",
}
