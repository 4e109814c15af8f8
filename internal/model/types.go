// Package model defines shared data structures.
package model

import "time"

// GeoPoint is a geographic coordinate in degrees.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Walk is a completed tracked session.
type Walk struct {
	ID       string     `json:"id"`
	Date     time.Time  `json:"date"`
	Duration int        `json:"duration"` // seconds
	Distance float64    `json:"distance"` // kilometers, 2 dp
	Route    []GeoPoint `json:"route"`
	AvgSpeed float64    `json:"avgSpeed,omitempty"` // km/h, 1 dp
}

// Urgency levels for a symptom analysis. The AI response is validated
// against these; anything else degrades to UrgencyMonitor.
const (
	UrgencyImmediate  = "Immediate veterinary attention required"
	UrgencyContactVet = "Contact your vet for advice"
	UrgencyMonitor    = "Monitor at home, contact vet if symptoms worsen"
)

// SymptomAnalysis is the structured result of a symptom check.
type SymptomAnalysis struct {
	Urgency             string   `json:"urgency"`
	PotentialCauses     []string `json:"potentialCauses"`
	RedFlags            []string `json:"redFlags"`
	ClarifyingQuestions []string `json:"clarifyingQuestions"`
}

// AnalysisRecord is a stored symptom analysis with its input.
type AnalysisRecord struct {
	SymptomAnalysis
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	Symptoms string    `json:"symptoms"`
}

// Medical record types.
const (
	RecordVetVisit    = "Vet Visit"
	RecordVaccination = "Vaccination"
	RecordMedication  = "Medication"
)

// MedicalRecord is a vet visit, vaccination, or medication entry.
type MedicalRecord struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	Date    time.Time `json:"date"`
	Title   string    `json:"title"`
	Details string    `json:"details"`
	DueDate time.Time `json:"dueDate,omitzero"` // reminder, optional
}

// TrainingStep is one step of a generated training plan.
type TrainingStep struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
}

// TrainingPlan is a generated multi-week training plan.
type TrainingPlan struct {
	Goal     string         `json:"goal"`
	Duration string         `json:"duration"`
	Steps    []TrainingStep `json:"steps"`
}

// Expense categories.
var ExpenseCategories = []string{"Food", "Vet", "Medication", "Grooming", "Toys", "Training", "Other"}

// Expense is a logged cost entry.
type Expense struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	Category string    `json:"category"`
	Amount   float64   `json:"amount"`
	Notes    string    `json:"notes,omitempty"`
}

// WeightRecord is a logged weight measurement in kilograms.
type WeightRecord struct {
	ID     string    `json:"id"`
	Date   time.Time `json:"date"`
	Weight float64   `json:"weight"`
}

// CommunityPost is an entry on the community feed.
type CommunityPost struct {
	ID     string    `json:"id"`
	Author string    `json:"author"`
	Date   time.Time `json:"date"`
	Text   string    `json:"text"`
}

// Dog sizes for playdate profiles.
const (
	SizeSmall  = "Small"
	SizeMedium = "Medium"
	SizeLarge  = "Large"
)

// Temperaments for playdate profiles.
const (
	TemperamentFriendly   = "Friendly"
	TemperamentEnergetic  = "Energetic"
	TemperamentCalm       = "Calm"
	TemperamentProtective = "Protective"
)

// Play styles for playdate profiles.
const (
	PlayStyleGentle   = "Gentle"
	PlayStyleChaser   = "Chaser"
	PlayStyleWrestler = "Wrestler"
)

// PlaydateProfile is a candidate dog on the playdate deck.
type PlaydateProfile struct {
	ID          string   `json:"id"`
	DogName     string   `json:"dogName"`
	Breed       string   `json:"breed"`
	Age         int      `json:"age"`
	Size        string   `json:"size"`
	Temperament []string `json:"temperament"`
	PlayStyle   string   `json:"playStyle"`
	OwnerName   string   `json:"ownerName"`
}

// Chat message senders.
const (
	SenderMe   = "me"
	SenderThem = "them"
)

// ChatMessage is one message in a playdate match chat.
type ChatMessage struct {
	ID     string    `json:"id"`
	Text   string    `json:"text"`
	Sender string    `json:"sender"`
	Date   time.Time `json:"date"`
}

// PlaydateMatch is a mutual like with its chat history.
type PlaydateMatch struct {
	ID       string          `json:"id"`
	Profile  PlaydateProfile `json:"profile"`
	Messages []ChatMessage   `json:"messages"`
	Date     time.Time       `json:"date"`
}

// Dog service types.
const (
	ServiceVet      = "Vet"
	ServicePark     = "Park"
	ServiceGroomer  = "Groomer"
	ServiceTrainer  = "Trainer"
	ServiceBoarding = "Boarding"
)

// DogService is an entry in the local services directory.
type DogService struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Location GeoPoint `json:"location"`
	Rating   float64  `json:"rating"`
}

// JournalEntry is a dated memory with an optional photo path.
type JournalEntry struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"`
	Caption   string    `json:"caption"`
	PhotoPath string    `json:"photoPath,omitempty"`
}

// Lost dog alert statuses.
const (
	AlertActive = "active"
	AlertFound  = "found"
)

// LostDogAlert is an entry on the lost-dog board.
type LostDogAlert struct {
	ID       string    `json:"id"`
	DogName  string    `json:"dogName"`
	LastSeen GeoPoint  `json:"lastSeenLocation"`
	Date     time.Time `json:"date"`
	Status   string    `json:"status"`
}
