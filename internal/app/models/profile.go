package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is a student's public profile.
type Profile struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Email          string    `json:"email" db:"email"`
	FullName       string    `json:"fullName" db:"full_name"`
	Department     string    `json:"department" db:"department"`
	YearOfStudy    string    `json:"yearOfStudy" db:"year_of_study"`
	Bio            string    `json:"bio" db:"bio"`
	CampusLocation string    `json:"campusLocation" db:"campus_location"`
	SkillsTeach    []string  `json:"skillsTeach" db:"skills_teach"`
	SkillsLearn    []string  `json:"skillsLearn" db:"skills_learn"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// HasSkills reports whether the profile lists anything to teach or learn.
func (p *Profile) HasSkills() bool {
	return len(p.SkillsTeach) > 0 || len(p.SkillsLearn) > 0
}

// ProfilePatch is a partial profile update; nil fields are left unchanged.
type ProfilePatch struct {
	FullName       *string
	Department     *string
	YearOfStudy    *string
	Bio            *string
	CampusLocation *string
	SkillsTeach    *[]string
	SkillsLearn    *[]string
}

// IsEmpty reports whether the patch changes nothing.
func (p ProfilePatch) IsEmpty() bool {
	return p.FullName == nil && p.Department == nil && p.YearOfStudy == nil && p.Bio == nil &&
		p.CampusLocation == nil && p.SkillsTeach == nil && p.SkillsLearn == nil
}

// Apply writes the patch onto a copy of p and returns it.
func (p ProfilePatch) Apply(profile Profile) Profile {
	if p.FullName != nil {
		profile.FullName = *p.FullName
	}
	if p.Department != nil {
		profile.Department = *p.Department
	}
	if p.YearOfStudy != nil {
		profile.YearOfStudy = *p.YearOfStudy
	}
	if p.Bio != nil {
		profile.Bio = *p.Bio
	}
	if p.CampusLocation != nil {
		profile.CampusLocation = *p.CampusLocation
	}
	if p.SkillsTeach != nil {
		profile.SkillsTeach = append([]string(nil), (*p.SkillsTeach)...)
	}
	if p.SkillsLearn != nil {
		profile.SkillsLearn = append([]string(nil), (*p.SkillsLearn)...)
	}
	return profile
}

// Departments a profile may list.
var Departments = []string{
	"Computer Science", "Electronics", "Mechanical", "Civil",
	"Electrical", "Biotechnology", "Chemistry", "Physics", "Mathematics", "Business",
}

// YearsOfStudy a profile may list.
var YearsOfStudy = []string{"1st Year", "2nd Year", "3rd Year", "4th Year"}
