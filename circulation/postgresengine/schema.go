package postgresengine

// Schema is the DDL for the circulation tables with the default (empty) table
// prefix. Apply it with your migration tooling before using the engine.
//
// The reservations seq column is a global serial: it only needs to be
// monotonic per item to break requested_at ties in promotion order.
const Schema = `
CREATE TABLE IF NOT EXISTS items (
    id               UUID PRIMARY KEY,
    title            TEXT NOT NULL,
    author           TEXT NOT NULL DEFAULT '',
    isbn             TEXT NOT NULL DEFAULT '',
    total_copies     INTEGER NOT NULL CHECK (total_copies >= 1),
    available_copies INTEGER NOT NULL CHECK (available_copies >= 0 AND available_copies <= total_copies),
    version          BIGINT NOT NULL DEFAULT 0,
    created_at       TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS loans (
    id          UUID PRIMARY KEY,
    item_id     UUID NOT NULL REFERENCES items (id),
    holder_id   UUID NOT NULL,
    issued_at   TIMESTAMP WITH TIME ZONE NOT NULL,
    due_at      TIMESTAMP WITH TIME ZONE NOT NULL,
    returned_at TIMESTAMP WITH TIME ZONE NULL,
    fine_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
    status      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS loans_item_status_idx ON loans (item_id, status);
CREATE INDEX IF NOT EXISTS loans_holder_status_idx ON loans (holder_id, status);
CREATE INDEX IF NOT EXISTS loans_due_at_idx ON loans (due_at) WHERE status = 'active';

CREATE TABLE IF NOT EXISTS reservations (
    id           UUID PRIMARY KEY,
    item_id      UUID NOT NULL REFERENCES items (id),
    holder_id    UUID NOT NULL,
    requested_at TIMESTAMP WITH TIME ZONE NOT NULL,
    seq          BIGSERIAL,
    status       TEXT NOT NULL,
    notified     BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS reservations_item_status_idx ON reservations (item_id, status, requested_at, seq);
CREATE INDEX IF NOT EXISTS reservations_holder_status_idx ON reservations (holder_id, status);

CREATE TABLE IF NOT EXISTS notifications (
    id         UUID PRIMARY KEY,
    holder_id  UUID NOT NULL,
    item_id    UUID NOT NULL,
    kind       TEXT NOT NULL,
    message    TEXT NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS notifications_holder_idx ON notifications (holder_id, created_at);
`
