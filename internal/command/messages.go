package command

const (
	MessageInvalidActivityID        = "The activity id provided is invalid"
	MessageInvalidPersonIndex       = "The person index provided is invalid"
	MessageDuplicateActivity        = "This activity already exists in the record"
	MessageDuplicatePerson          = "This person already exists in the record"
	MessageConflictingActivity      = "This activity conflicts with an existing activity: %s"
	MessageIDsExhausted             = "No more ids available for this record type"
	MessageAddActivitySuccess       = "New activity added: %s"
	MessageAddDoctorSuccess         = "New doctor added: %s"
	MessageAddPatientSuccess        = "New patient added: %s"
	MessageDeleteActivitySuccess    = "Deleted Activity: %s"
	MessageDeletePersonSuccess      = "Deleted Person: %s"
	MessageEditActivitySuccess      = "Edited Activity: %s"
	MessageEditPersonSuccess        = "Edited Person: %s"
	MessageNotEdited                = "At least one field to edit must be provided."
	MessageListAll                  = "Listed all records"
	MessageListPersons              = "Listed all persons"
	MessageListActivities           = "Listed all activities"
	MessagePersonsListedOverview    = "%d persons listed!"
	MessageActivitiesListedOverview = "%d activities listed!"
	MessageClearSuccess             = "All records have been cleared!"
	MessageHelp                     = "Opened help window."
	MessageExit                     = "Exiting GoMedic as requested ..."
)
