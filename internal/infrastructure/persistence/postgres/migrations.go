// Package postgres implements the PostgreSQL persistence layer for the
// EduTrack backend.
package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE PROFILES
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create profiles table
-- Version: 001

-- Profiles are owned by the identity provider and mirrored here for joins
-- and role checks. This system never creates or mutates them on its own.
CREATE TABLE IF NOT EXISTS profiles (
    id UUID PRIMARY KEY,
    full_name VARCHAR(120) NOT NULL,
    roll_number VARCHAR(30) NOT NULL DEFAULT '',
    role VARCHAR(20) NOT NULL DEFAULT 'student',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_role CHECK (role IN ('student', 'teacher'))
);

CREATE INDEX IF NOT EXISTS idx_profiles_role ON profiles(role);

-- Updated_at trigger function for automatic timestamp updates
CREATE OR REPLACE FUNCTION update_updated_at_column()
RETURNS TRIGGER AS $$
BEGIN
    NEW.updated_at = NOW();
    RETURN NEW;
END;
$$ language 'plpgsql';

DROP TRIGGER IF EXISTS update_profiles_updated_at ON profiles;
CREATE TRIGGER update_profiles_updated_at
    BEFORE UPDATE ON profiles
    FOR EACH ROW
    EXECUTE FUNCTION update_updated_at_column();
`

const migration001Down = `
DROP TRIGGER IF EXISTS update_profiles_updated_at ON profiles;
DROP FUNCTION IF EXISTS update_updated_at_column();
DROP TABLE IF EXISTS profiles;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE ATTENDANCE
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create attendance table
-- Version: 002

-- One row per user per calendar day. The UNIQUE constraint is the sole
-- enforcement of that invariant: concurrent marks race on the insert and
-- the database picks exactly one winner.
CREATE TABLE IF NOT EXISTS attendance (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
    date DATE NOT NULL,
    marked_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    status VARCHAR(20) NOT NULL DEFAULT 'Present',
    latitude DOUBLE PRECISION,
    longitude DOUBLE PRECISION,
    location_name VARCHAR(255),
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    UNIQUE(user_id, date),
    CONSTRAINT valid_status CHECK (status IN ('Present')),
    CONSTRAINT location_pair CHECK ((latitude IS NULL) = (longitude IS NULL))
);

CREATE INDEX IF NOT EXISTS idx_attendance_user_date ON attendance(user_id, date DESC);
CREATE INDEX IF NOT EXISTS idx_attendance_date ON attendance(date DESC);
`

const migration002Down = `
DROP TABLE IF EXISTS attendance;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: CREATE ASSIGNMENTS AND NOTES
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create assignments and study_notes tables
-- Version: 003

-- Assignment metadata. The file itself lives in the external blob store;
-- file_url is the durable public URL returned by the upload.
CREATE TABLE IF NOT EXISTS assignments (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
    title VARCHAR(255) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    subject VARCHAR(100) NOT NULL DEFAULT '',
    comments TEXT NOT NULL DEFAULT '',
    file_url TEXT NOT NULL,
    file_name VARCHAR(255) NOT NULL DEFAULT '',
    file_type VARCHAR(120) NOT NULL DEFAULT '',
    submitted_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT nonempty_title CHECK (length(trim(title)) > 0)
);

CREATE INDEX IF NOT EXISTS idx_assignments_user ON assignments(user_id, submitted_at DESC);
CREATE INDEX IF NOT EXISTS idx_assignments_submitted ON assignments(submitted_at DESC);

-- Personal study notes with a completion flag. The reminder timestamp is
-- stored only; nothing schedules or delivers on it.
CREATE TABLE IF NOT EXISTS study_notes (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
    title VARCHAR(255) NOT NULL,
    content TEXT NOT NULL,
    subject VARCHAR(100) NOT NULL DEFAULT '',
    reminder_date TIMESTAMP WITH TIME ZONE,
    completed BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT nonempty_note_title CHECK (length(trim(title)) > 0),
    CONSTRAINT nonempty_note_content CHECK (length(trim(content)) > 0)
);

CREATE INDEX IF NOT EXISTS idx_study_notes_user ON study_notes(user_id, created_at DESC);

DROP TRIGGER IF EXISTS update_study_notes_updated_at ON study_notes;
CREATE TRIGGER update_study_notes_updated_at
    BEFORE UPDATE ON study_notes
    FOR EACH ROW
    EXECUTE FUNCTION update_updated_at_column();
`

const migration003Down = `
DROP TRIGGER IF EXISTS update_study_notes_updated_at ON study_notes;
DROP TABLE IF EXISTS study_notes;
DROP TABLE IF EXISTS assignments;
`
