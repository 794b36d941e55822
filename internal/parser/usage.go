package parser

const (
	UsageAddActivity = "add t/activity: Adds an activity.\n" +
		"Parameters: s/START_TIME e/END_TIME ti/TITLE [d/DESCRIPTION]\n" +
		"Example: add t/activity s/15/10/2026 09:00 e/15/10/2026 10:00 ti/Ward round d/Level 3"
	UsageAddDoctor = "add t/doctor: Adds a doctor.\n" +
		"Parameters: n/NAME p/PHONE de/DEPARTMENT\n" +
		"Example: add t/doctor n/Amy Tan p/91234567 de/Cardiology"
	UsageAddPatient = "add t/patient: Adds a patient.\n" +
		"Parameters: n/NAME p/PHONE a/AGE g/GENDER [b/BLOOD_TYPE] [m/MEDICAL_CONDITION]...\n" +
		"Example: add t/patient n/Bob Lee p/81234567 a/40 g/M b/O+ m/asthma"
	UsageAdd = UsageAddActivity + "\n" + UsageAddDoctor + "\n" + UsageAddPatient

	UsageDeleteActivity = "delete t/activity: Deletes the activity with the id shown in the activity list.\n" +
		"Parameters: ID (must be exactly the same as shown in the list, e.g. A001)\n" +
		"Example: delete t/activity A001"
	UsageDeletePerson = "delete: Deletes the person identified by the index shown in the person list.\n" +
		"Parameters: INDEX (must be a positive integer)\n" +
		"Example: delete 1"
	UsageDelete = UsageDeletePerson + "\n" + UsageDeleteActivity

	UsageEditActivity = "edit t/activity: Edits the activity with the id shown in the activity list.\n" +
		"Parameters: ID [s/START_TIME] [e/END_TIME] [ti/TITLE] [d/DESCRIPTION]\n" +
		"Example: edit t/activity A001 ti/Morning round"
	UsageEditPerson = "edit: Edits the person identified by the index shown in the person list.\n" +
		"Parameters: INDEX [n/NAME] [p/PHONE] [de/DEPARTMENT] [a/AGE] [g/GENDER] [b/BLOOD_TYPE] [m/MEDICAL_CONDITION]...\n" +
		"Example: edit 1 p/91234567"
	UsageEdit = UsageEditPerson + "\n" + UsageEditActivity

	UsageList = "list: Lists records.\n" +
		"Parameters: [t/person | t/activity [o/start | o/id]]\n" +
		"Example: list t/activity o/start"

	UsageFind = "find: Finds persons whose names, or activities whose title or description, contain any of the keywords.\n" +
		"Parameters: [t/activity] KEYWORD [MORE_KEYWORDS]...\n" +
		"Example: find t/activity surgery"

	UsageHelp = "Commands: add, delete, edit, list, find, clear, help, exit"
)
